package audio

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/extraction"
	"yt-audio-vault/domain/failure"
	"yt-audio-vault/infrastructure/logging"
)

const testURL = "https://www.youtube.com/watch?v=abc123"

func TestService_Download(t *testing.T) {
	deps := newTestDeps()
	deps.extractor.infos[testURL] = &extraction.Info{ID: "abc123", Title: "Song", Channel: "Artist", Duration: 212}
	svc := deps.service(t)

	result, err := svc.Download(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.VideoID != "abc123" {
		t.Errorf("VideoID = %q", result.VideoID)
	}
	if result.StorePath != "gs://my-bucket/audio/abc123.mp3" {
		t.Errorf("StorePath = %q", result.StorePath)
	}
	if result.AccessURL != "https://storage.googleapis.com/my-bucket/audio/abc123.mp3" {
		t.Errorf("AccessURL = %q", result.AccessURL)
	}
	if result.FileSize != 4096 {
		t.Errorf("FileSize = %d", result.FileSize)
	}

	if len(deps.store.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(deps.store.uploads))
	}
	up := deps.store.uploads[0]
	if up.Key != "audio/abc123.mp3" || up.ContentType != "audio/mpeg" {
		t.Errorf("unexpected upload: %+v", up)
	}
	if up.Metadata[archive.MetaTitle] != "Song" || up.Metadata[archive.MetaSourceURL] != testURL {
		t.Errorf("unexpected metadata: %v", up.Metadata)
	}

	opts := deps.extractor.calls[0].opts
	if opts.Audio == nil || opts.SkipDownload {
		t.Error("expected audio download options")
	}
	if deps.recorder.outcomes[0] != "success" {
		t.Errorf("recorded outcome %q", deps.recorder.outcomes[0])
	}
}

func TestService_Download_ScratchDirRemoved(t *testing.T) {
	deps := newTestDeps()
	deps.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
	scratch := t.TempDir()
	svc := NewService(deps.extractor, deps.store, deps.cookies, deps.files, extraction.Settings{}, WithScratchDir(scratch))

	if _, err := svc.Download(context.Background(), testURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected scratch directory to be cleaned up, found %d entries", len(entries))
	}
}

func TestService_Download_FallbackFilename(t *testing.T) {
	deps := newTestDeps()
	deps.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
	deps.extractor.outputName = func(id string) string { return "renamed.mp3" }
	svc := deps.service(t)

	if _, err := svc.Download(context.Background(), testURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(deps.store.uploads[0].LocalPath) != "renamed.mp3" {
		t.Errorf("uploaded %q, want renamed.mp3", deps.store.uploads[0].LocalPath)
	}
}

func TestService_Download_DefaultsTitleAndChannel(t *testing.T) {
	deps := newTestDeps()
	deps.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
	svc := deps.service(t)

	result, err := svc.Download(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "abc123" || result.Channel != "Unknown" {
		t.Errorf("Title/Channel = %q/%q", result.Title, result.Channel)
	}
}

func TestService_Download_CookieStrategy(t *testing.T) {
	deps := newTestDeps()
	deps.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
	deps.cookies.path = "/tmp/cookies.txt"
	svc := deps.service(t)

	if _, err := svc.Download(context.Background(), testURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := deps.extractor.calls[0].opts
	if opts.CookieFile != "/tmp/cookies.txt" || opts.ExtractorArgs != "" {
		t.Errorf("expected cookie authentication only, got cookie %q args %q", opts.CookieFile, opts.ExtractorArgs)
	}
}

func TestService_Download_LogsWithRequestLogger(t *testing.T) {
	deps := newTestDeps()
	deps.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
	svc := deps.service(t)

	var buf bytes.Buffer
	reqLogger := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "req-42")
	ctx := logging.ContextWithLogger(context.Background(), reqLogger)

	if _, err := svc.Download(ctx, testURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) {
		t.Errorf("expected request_id in log output, got %q", out)
	}
	if !strings.Contains(out, "download stored") || !strings.Contains(out, `"component":"audio"`) {
		t.Errorf("expected component-tagged download log, got %q", out)
	}
}

func TestService_Download_Errors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		setup    func(d *testDeps)
		noStore  bool
		wantKind failure.Kind
		wantMsg  string
	}{
		{
			name:     "missing url",
			url:      "  ",
			wantKind: failure.KindValidation,
			wantMsg:  "No URL provided",
		},
		{
			name:     "option-like url",
			url:      "--batch-file=/etc/passwd",
			wantKind: failure.KindValidation,
			wantMsg:  "Invalid URL: only http and https URLs are supported",
		},
		{
			name:     "non-http scheme",
			url:      "file:///etc/passwd",
			wantKind: failure.KindValidation,
			wantMsg:  "Invalid URL: only http and https URLs are supported",
		},
		{
			name:     "invalid url checked before bucket",
			url:      "-U",
			noStore:  true,
			wantKind: failure.KindValidation,
			wantMsg:  "Invalid URL: only http and https URLs are supported",
		},
		{
			name:     "missing bucket",
			url:      testURL,
			noStore:  true,
			wantKind: failure.KindConfiguration,
			wantMsg:  "BUCKET_NAME not configured",
		},
		{
			name: "extraction failure",
			url:  testURL,
			setup: func(d *testDeps) {
				d.extractor.errs[testURL] = errors.New("ERROR: Video unavailable")
			},
			wantKind: failure.KindExtraction,
			wantMsg:  "Download failed: ERROR: Video unavailable",
		},
		{
			name: "no mp3 produced",
			url:  testURL,
			setup: func(d *testDeps) {
				d.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
				d.extractor.outputName = func(string) string { return "" }
			},
			wantKind: failure.KindArtifactMissing,
			wantMsg:  "Audio extraction failed",
		},
		{
			name: "upload failure",
			url:  testURL,
			setup: func(d *testDeps) {
				d.extractor.infos[testURL] = &extraction.Info{ID: "abc123"}
				d.store.uploadErr = errors.New("googleapi: Error 403: forbidden")
			},
			wantKind: failure.KindStore,
			wantMsg:  "googleapi: Error 403: forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			if tt.setup != nil {
				tt.setup(deps)
			}
			svc := deps.service(t)
			if tt.noStore {
				svc = NewService(deps.extractor, nil, deps.cookies, deps.files, extraction.Settings{})
			}

			_, err := svc.Download(context.Background(), tt.url)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if tt.wantKind == failure.KindValidation && len(deps.extractor.calls) != 0 {
				t.Errorf("extractor must not run for rejected input, got %d calls", len(deps.extractor.calls))
			}
			if got := failure.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestService_Batch(t *testing.T) {
	deps := newTestDeps()
	good := "https://youtu.be/good1"
	bad := "https://youtu.be/bad"
	also := "https://youtu.be/good2"
	deps.extractor.infos[good] = &extraction.Info{ID: "good1"}
	deps.extractor.infos[also] = &extraction.Info{ID: "good2"}
	deps.extractor.errs[bad] = errors.New("ERROR: private video")
	svc := deps.service(t)

	urls := []string{good, bad, also}
	items, err := svc.Batch(context.Background(), urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != len(urls) {
		t.Fatalf("expected %d items, got %d", len(urls), len(items))
	}
	for i, item := range items {
		if item.URL != urls[i] {
			t.Errorf("item %d URL = %q, want %q", i, item.URL, urls[i])
		}
	}
	if items[0].Result == nil || items[0].Result.VideoID != "good1" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Err == nil || !strings.Contains(items[1].Err.Error(), "private video") {
		t.Errorf("item 1 = %+v", items[1])
	}
	if items[2].Result == nil || items[2].Result.VideoID != "good2" {
		t.Errorf("item 2 = %+v", items[2])
	}
}

func TestService_Batch_Empty(t *testing.T) {
	svc := newTestDeps().service(t)

	_, err := svc.Batch(context.Background(), nil)
	if failure.KindOf(err) != failure.KindValidation || err.Error() != "No URLs provided" {
		t.Errorf("unexpected error: %v", err)
	}
}
