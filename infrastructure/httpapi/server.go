package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"yt-audio-vault/application/audio"
	"yt-audio-vault/domain/extraction"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AudioService is the set of use cases exposed over HTTP
type AudioService interface {
	Download(ctx context.Context, url string) (*audio.DownloadResult, error)
	Batch(ctx context.Context, urls []string) ([]audio.BatchItem, error)
	Info(ctx context.Context, url string) (*extraction.Info, error)
	Formats(ctx context.Context, url string) (*extraction.Info, error)
	List(ctx context.Context) ([]audio.LibraryEntry, error)
	Delete(ctx context.Context, videoID string) (string, error)
}

// CookieManager refreshes and reports the cookie file
type CookieManager interface {
	Refresh(ctx context.Context) bool
	Available() bool
}

// RequestRecorder observes completed HTTP requests
type RequestRecorder interface {
	ObserveRequest(method, route string, status int, durationSeconds float64)
}

// HealthInfo carries the configuration flags reported by GET /health
type HealthInfo struct {
	BucketConfigured bool
	ProxyConfigured  bool
	POTProviderURL   string
}

// Server routes API requests to the audio service
type Server struct {
	audio          AudioService
	cookies        CookieManager
	health         HealthInfo
	logger         *slog.Logger
	recorder       RequestRecorder
	metricsHandler http.Handler
	newRequestID   func() string
	router         *mux.Router
}

// Option is a functional option for configuring Server
type Option func(*Server)

// WithLogger sets the base request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRecorder sets the request metrics recorder
func WithRecorder(r RequestRecorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithMetricsHandler mounts h at GET /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// WithRequestIDGenerator overrides how request ids are minted (for testing)
func WithRequestIDGenerator(gen func() string) Option {
	return func(s *Server) {
		s.newRequestID = gen
	}
}

// NewServer creates a Server and registers every route
func NewServer(svc AudioService, cookies CookieManager, health HealthInfo, opts ...Option) *Server {
	s := &Server{
		audio:        svc,
		cookies:      cookies,
		health:       health,
		logger:       slog.Default(),
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost)
	r.HandleFunc("/batch", s.handleBatch).Methods(http.MethodPost)
	r.HandleFunc("/info", s.handleInfo).Methods(http.MethodPost)
	r.HandleFunc("/formats", s.handleFormats).Methods(http.MethodPost)
	r.HandleFunc("/list", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/delete/{video_id}", s.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/refresh-cookies", s.handleRefreshCookies).Methods(http.MethodPost)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	return r
}

// Handler returns the router wrapped in request id, logging and metrics middleware
func (s *Server) Handler() http.Handler {
	return s.requestID(s.observe(s.router))
}
