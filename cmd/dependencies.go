package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"yt-audio-vault/application/audio"
	"yt-audio-vault/application/credentials"
	"yt-audio-vault/domain/archive"
	"yt-audio-vault/infrastructure/config"
	"yt-audio-vault/infrastructure/filesystem"
	"yt-audio-vault/infrastructure/gcs"
	"yt-audio-vault/infrastructure/logging"
	"yt-audio-vault/infrastructure/metrics"
	"yt-audio-vault/infrastructure/preflight"
	"yt-audio-vault/infrastructure/ytdlp"
)

// dependencies holds the production collaborators shared by every command
type dependencies struct {
	logger  *slog.Logger
	store   archive.ObjectStore
	cookies *credentials.Materializer
	metrics *metrics.Prom
	audio   *audio.Service
}

func buildDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	logger := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// A nil interface, not a nil *gcs.Client, so the service reports the missing bucket
	var store archive.ObjectStore
	if cfg.BucketConfigured() {
		client, err := newStorageClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		store = client
	} else {
		logger.Warn("BUCKET_NAME not configured; storage endpoints will fail")
	}

	files := filesystem.NewChecker()
	cookies := credentials.NewMaterializer(
		store,
		cfg.Storage.CookiesObjectKey,
		cfg.Storage.CookiesLocalPath,
		files,
		credentials.WithLogger(logger),
	)

	prom := metrics.NewProm()
	svc := audio.NewService(
		ytdlp.NewExtractor(),
		store,
		cookies,
		files,
		cfg.ExtractionSettings(),
		audio.WithScratchDir(cfg.Storage.ScratchDir),
		audio.WithRecorder(prom),
		audio.WithLogger(logger),
	)

	return &dependencies{
		logger:  logger,
		store:   store,
		cookies: cookies,
		metrics: prom,
		audio:   svc,
	}, nil
}

func newStorageClient(ctx context.Context, cfg *config.Config) (*gcs.Client, error) {
	if cfg.UsesOAuth() {
		return gcs.NewClientWithOAuth(ctx, cfg.Storage.BucketName, gcs.OAuthConfig{
			CredentialsFile: cfg.Storage.CredentialsFile,
			TokenFile:       cfg.Storage.OAuthTokenFile,
			Output:          DefaultOutput,
		})
	}
	return gcs.NewClient(ctx, cfg.Storage.BucketName, cfg.Storage.CredentialsFile)
}

// verifyTools logs the versions of yt-dlp and ffmpeg and reports any that are missing
func verifyTools(ctx context.Context, logger *slog.Logger) error {
	versions, err := preflight.NewChecker().Verify(ctx)
	for name, version := range versions {
		logger.Info("found external tool", "tool", name, "version", version)
	}
	return err
}
