package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yt-audio-vault/application/audio"
	"yt-audio-vault/domain/failure"
	"yt-audio-vault/infrastructure/config"
)

type mockDownloader struct {
	result *audio.DownloadResult
	err    error
	urls   []string
}

func (m *mockDownloader) Download(_ context.Context, url string) (*audio.DownloadResult, error) {
	m.urls = append(m.urls, url)
	return m.result, m.err
}

func TestRunFetchWithDependencies(t *testing.T) {
	downloader := &mockDownloader{result: &audio.DownloadResult{
		VideoID:   "abc123",
		Title:     "Sermon",
		Channel:   "Church",
		Duration:  125,
		FileSize:  4096,
		StorePath: "gs://my-bucket/audio/abc123.mp3",
		AccessURL: "https://storage.googleapis.com/my-bucket/audio/abc123.mp3",
	}}
	var out bytes.Buffer

	err := RunFetchWithDependencies(context.Background(), downloader, "https://www.youtube.com/watch?v=abc123", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Downloading audio from https://www.youtube.com/watch?v=abc123", `"Sermon" by Church`, "gs://my-bucket/audio/abc123.mp3", "4096 bytes"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunFetchWithDependencies_Error(t *testing.T) {
	downloader := &mockDownloader{err: failure.Configuration("BUCKET_NAME not configured")}

	err := RunFetchWithDependencies(context.Background(), downloader, "https://x", io.Discard)
	if err == nil || err.Error() != "BUCKET_NAME not configured" {
		t.Errorf("expected configuration error, got %v", err)
	}
}

type mockRefresher struct {
	found bool
}

func (m *mockRefresher) Refresh(context.Context) bool { return m.found }

func TestRunRefreshCookiesWithDependencies(t *testing.T) {
	var out bytes.Buffer
	if err := RunRefreshCookiesWithDependencies(context.Background(), &mockRefresher{found: true}, "cookies.txt", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Cookies refreshed from cookies.txt") {
		t.Errorf("unexpected output %q", out.String())
	}

	err := RunRefreshCookiesWithDependencies(context.Background(), &mockRefresher{}, "auth/cookies.txt", &out)
	if err == nil || !strings.Contains(err.Error(), `"auth/cookies.txt" not found`) {
		t.Errorf("expected not found error, got %v", err)
	}
}

type mockPrompter struct {
	inputs   []string
	confirms []bool
}

func (m *mockPrompter) Input(message string, defaultValue string) (string, error) {
	if len(m.inputs) == 0 {
		return "", fmt.Errorf("unexpected prompt: %s", message)
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if len(m.confirms) == 0 {
		return defaultValue, nil
	}
	v := m.confirms[0]
	m.confirms = m.confirms[1:]
	return v, nil
}

func TestRunSetupWithPrompter(t *testing.T) {
	for _, key := range []string{config.EnvBucketName, config.EnvProxyURL, config.EnvPOTProviderURL, config.EnvCookiesObjectKey, config.EnvPort} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	prompter := &mockPrompter{
		// bucket, credentials, cookie key, proxy, token provider, port, log format
		inputs:   []string{"my-bucket", "", "", "http://proxy:3128", "", "9090", "text"},
		confirms: []bool{true},
	}

	if err := RunSetupWithPrompter(prompter, path, io.Discard); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if cfg.Storage.BucketName != "my-bucket" || cfg.Storage.CookiesObjectKey != "cookies.txt" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Extraction.ProxyURL != "http://proxy:3128" || cfg.Extraction.POTProviderURL != "http://127.0.0.1:4416" {
		t.Errorf("unexpected extraction config %+v", cfg.Extraction)
	}
	if cfg.Server.Port != 9090 || cfg.Log.Format != "text" {
		t.Errorf("unexpected server/log config %+v %+v", cfg.Server, cfg.Log)
	}
}

func TestRunSetupWithPrompter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		wantErr string
	}{
		{"missing bucket", []string{""}, "bucket name is required"},
		{"bad port", []string{"b", "", "", "", "http"}, "invalid port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			err := RunSetupWithPrompter(&mockPrompter{inputs: tt.inputs}, path, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunSetupWithPrompter_KeepsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("storage:\n  bucket_name: original\n"), 0644)
	var out bytes.Buffer

	if err := RunSetupWithPrompter(&mockPrompter{confirms: []bool{false}}, path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "original") || !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("config should be unchanged; output %q", out.String())
	}
}

func TestRunServeWithDependencies_GracefulShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServeWithDependencies(ctx, listener, handler, time.Second, logger)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
