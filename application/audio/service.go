package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/extraction"
	"yt-audio-vault/domain/failure"
	"yt-audio-vault/infrastructure/logging"
)

// CookieSource yields a usable cookie file path, or "" when none is available
type CookieSource interface {
	Ensure(ctx context.Context) string
}

// DownloadRecorder counts download outcomes
type DownloadRecorder interface {
	ObserveDownload(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveDownload(string) {}

const invalidURLMessage = "Invalid URL: only http and https URLs are supported"

// Service coordinates extraction and storage for every API operation
type Service struct {
	extractor  extraction.Extractor
	store      archive.ObjectStore
	cookies    CookieSource
	files      extraction.FileChecker
	settings   extraction.Settings
	scratchDir string
	recorder   DownloadRecorder
	logger     *slog.Logger
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithScratchDir sets the parent directory for per-download scratch directories
func WithScratchDir(dir string) ServiceOption {
	return func(s *Service) {
		s.scratchDir = dir
	}
}

// WithRecorder sets the download outcome recorder
func WithRecorder(r DownloadRecorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new Service. store may be nil when no bucket is configured;
// storage operations then report a configuration error.
func NewService(
	extractor extraction.Extractor,
	store archive.ObjectStore,
	cookies CookieSource,
	files extraction.FileChecker,
	settings extraction.Settings,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		extractor: extractor,
		store:     store,
		cookies:   cookies,
		files:     files,
		settings:  settings,
		recorder:  noopRecorder{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// log returns the request-scoped logger carried by ctx, falling back to the service logger
func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger).With("component", "audio")
}

// DownloadResult contains the outcome of a successful download
type DownloadResult struct {
	VideoID   string
	Title     string
	Channel   string
	Duration  float64
	FileSize  int64
	StorePath string
	AccessURL string
}

// BatchItem holds one entry of a batch download: either Result or Err is set
type BatchItem struct {
	URL    string
	Result *DownloadResult
	Err    error
}

// Download fetches a video's audio, converts it to MP3 and uploads it to the store
func (s *Service) Download(ctx context.Context, url string) (*DownloadResult, error) {
	result, err := s.download(ctx, strings.TrimSpace(url))
	if err != nil {
		s.recorder.ObserveDownload(failure.KindOf(err).String())
		s.log(ctx).Warn("download failed", "url", url, "kind", failure.KindOf(err).String(), "error", err)
		return nil, err
	}
	s.recorder.ObserveDownload("success")
	return result, nil
}

func (s *Service) download(ctx context.Context, url string) (*DownloadResult, error) {
	if url == "" {
		return nil, failure.Validation("No URL provided")
	}
	if !extraction.ValidURL(url) {
		return nil, failure.Validation(invalidURLMessage)
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(s.scratchDir, "download-*")
	if err != nil {
		return nil, failure.Wrap(failure.KindInternal, fmt.Sprintf("failed to create scratch directory: %v", err), err)
	}
	defer os.RemoveAll(workDir)

	opts := extraction.NewOptions(s.settings, s.cookies.Ensure(ctx), workDir).WithAudio()
	s.log(ctx).Info("starting download", "url", url, "strategy", opts.Strategy.String())

	info, err := s.extractor.Extract(ctx, url, opts)
	if err != nil {
		return nil, failure.Extraction(err)
	}

	audioPath := s.locateAudio(workDir, info.ID)
	if audioPath == "" {
		return nil, failure.ArtifactMissing("Audio extraction failed")
	}

	size, err := s.files.Size(audioPath)
	if err != nil {
		return nil, failure.Wrap(failure.KindInternal, fmt.Sprintf("failed to stat audio file: %v", err), err)
	}

	key := archive.AudioKey(info.ID)
	_, err = s.store.Upload(ctx, archive.UploadRequest{
		LocalPath:   audioPath,
		Key:         key,
		ContentType: archive.MimeTypeMP3,
		Metadata:    archive.AudioMetadata(info.TitleOrID(), info.ChannelOrUnknown(), info.Duration, url),
	})
	if err != nil {
		return nil, failure.Store(err)
	}

	s.log(ctx).Info("download stored", "video_id", info.ID, "key", key, "size_bytes", size)

	return &DownloadResult{
		VideoID:   info.ID,
		Title:     info.TitleOrID(),
		Channel:   info.ChannelOrUnknown(),
		Duration:  info.Duration,
		FileSize:  size,
		StorePath: archive.StorePath(s.store.Bucket(), key),
		AccessURL: s.store.AccessURL(key),
	}, nil
}

// locateAudio returns the expected <id>.mp3, falling back to any MP3 in dir
func (s *Service) locateAudio(dir, videoID string) string {
	if videoID != "" {
		expected := filepath.Join(dir, videoID+".mp3")
		if s.files.Exists(expected) {
			return expected
		}
	}
	return s.files.FindByExtension(dir, ".mp3")
}

// Batch downloads each URL in order; a failed item is recorded and does not stop the batch
func (s *Service) Batch(ctx context.Context, urls []string) ([]BatchItem, error) {
	if len(urls) == 0 {
		return nil, failure.Validation("No URLs provided")
	}

	items := make([]BatchItem, 0, len(urls))
	for _, url := range urls {
		result, err := s.Download(ctx, url)
		items = append(items, BatchItem{URL: url, Result: result, Err: err})
	}
	return items, nil
}

func (s *Service) requireStore() error {
	if s.store == nil || s.store.Bucket() == "" {
		return failure.Configuration("BUCKET_NAME not configured")
	}
	return nil
}
