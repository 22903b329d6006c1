package credentials

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/extraction"
	"yt-audio-vault/infrastructure/logging"
)

// CookieState describes the locally materialized cookie bundle
type CookieState struct {
	LocalPath     string
	LastFetchedAt time.Time
}

// Materializer keeps a local copy of the cookie bundle stored in the object store
type Materializer struct {
	store     archive.ObjectStore
	key       string
	localPath string
	files     extraction.FileChecker
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	state CookieState
}

// MaterializerOption is a functional option for configuring Materializer
type MaterializerOption func(*Materializer)

// WithLogger sets the logger used for fetch diagnostics
func WithLogger(logger *slog.Logger) MaterializerOption {
	return func(m *Materializer) {
		m.logger = logger
	}
}

// WithClock sets the time source (for testing)
func WithClock(now func() time.Time) MaterializerOption {
	return func(m *Materializer) {
		m.now = now
	}
}

// NewMaterializer creates a materializer that copies key from store to localPath.
// A nil store means no bucket is configured and no cookies are ever available.
func NewMaterializer(store archive.ObjectStore, key, localPath string, files extraction.FileChecker, opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		store:     store,
		key:       key,
		localPath: localPath,
		files:     files,
		logger:    slog.Default(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Materializer) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, m.logger).With("component", "cookies")
}

// Ensure returns a usable cookie file path, fetching the bundle if the cached copy is missing.
// It returns "" when no bundle is available; that is not an error.
func (m *Materializer) Ensure(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.LocalPath != "" && m.files.Exists(m.state.LocalPath) {
		return m.state.LocalPath
	}
	m.fetchLocked(ctx)
	return m.state.LocalPath
}

// Refresh re-fetches the bundle regardless of the cached state and reports whether it was found
func (m *Materializer) Refresh(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fetchLocked(ctx)
}

// Available reports whether a cookie file is on disk, without contacting the store
func (m *Materializer) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.LocalPath != "" && m.files.Exists(m.state.LocalPath)
}

// State returns a snapshot of the cached cookie state
func (m *Materializer) State() CookieState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *Materializer) fetchLocked(ctx context.Context) bool {
	logger := m.log(ctx)
	m.state.LocalPath = ""

	if m.store == nil {
		logger.Debug("no bucket configured, skipping cookie fetch")
		return false
	}

	err := m.store.Download(ctx, m.key, m.localPath)
	switch {
	case errors.Is(err, archive.ErrObjectNotFound):
		logger.Info("cookie object not found, using token provider fallback", "key", m.key)
		return false
	case err != nil:
		logger.Warn("failed to fetch cookie object", "key", m.key, "error", err)
		return false
	}

	m.state.LocalPath = m.localPath
	m.state.LastFetchedAt = m.now()
	logger.Info("cookie object materialized", "key", m.key, "path", m.localPath)
	return true
}
