package extraction

import (
	"strings"
	"testing"
)

func TestNewOptions_ReliabilityDefaults(t *testing.T) {
	opts := NewOptions(Settings{}, "", "")

	if opts.Retries != 5 || opts.FragmentRetries != 5 || opts.ExtractorRetries != 3 {
		t.Errorf("unexpected retries: %d/%d/%d", opts.Retries, opts.FragmentRetries, opts.ExtractorRetries)
	}
	if opts.SocketTimeout != DefaultSocketTimeout {
		t.Errorf("SocketTimeout = %v, want %v", opts.SocketTimeout, DefaultSocketTimeout)
	}
	if !opts.NoPlaylist || !opts.GeoBypass || !opts.NoCheckCertificates {
		t.Error("expected no-playlist, geo bypass and no certificate check to be set")
	}
	if opts.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", opts.UserAgent)
	}
	if opts.Audio != nil {
		t.Error("expected no audio options before WithAudio")
	}
}

func TestNewOptions_Strategy(t *testing.T) {
	settings := Settings{POTProviderURL: "http://pot:4416"}

	tests := []struct {
		name         string
		cookieFile   string
		wantStrategy Strategy
		wantArgs     bool
	}{
		{
			name:         "cookie file present uses cookies only",
			cookieFile:   "/tmp/cookies.txt",
			wantStrategy: StrategyCookieAuthenticated,
			wantArgs:     false,
		},
		{
			name:         "no cookie file falls back to token provider",
			cookieFile:   "",
			wantStrategy: StrategyTokenProviderFallback,
			wantArgs:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions(settings, tt.cookieFile, "")

			if opts.Strategy != tt.wantStrategy {
				t.Errorf("Strategy = %v, want %v", opts.Strategy, tt.wantStrategy)
			}
			hasArgs := strings.Contains(opts.ExtractorArgs, "base_url=http://pot:4416")
			if hasArgs != tt.wantArgs {
				t.Errorf("token provider args present = %v, want %v (args %q)", hasArgs, tt.wantArgs, opts.ExtractorArgs)
			}
			if tt.wantArgs && opts.CookieFile != "" {
				t.Errorf("fallback must not carry a cookie file, got %q", opts.CookieFile)
			}
			if !tt.wantArgs && opts.CookieFile != tt.cookieFile {
				t.Errorf("CookieFile = %q, want %q", opts.CookieFile, tt.cookieFile)
			}
		})
	}
}

func TestNewOptions_OutputDirectory(t *testing.T) {
	withDir := NewOptions(Settings{}, "", "/scratch/dl-1")
	if withDir.OutputTemplate != "/scratch/dl-1/%(id)s.%(ext)s" {
		t.Errorf("OutputTemplate = %q", withDir.OutputTemplate)
	}
	if withDir.SkipDownload {
		t.Error("expected download when an output directory is given")
	}

	metadata := NewOptions(Settings{}, "", "")
	if metadata.OutputTemplate != "" || !metadata.SkipDownload {
		t.Errorf("expected metadata-only options, got template %q skip %v", metadata.OutputTemplate, metadata.SkipDownload)
	}
}

func TestNewOptions_Proxy(t *testing.T) {
	if got := NewOptions(Settings{ProxyURL: "http://proxy:3128"}, "", "").Proxy; got != "http://proxy:3128" {
		t.Errorf("Proxy = %q", got)
	}
	if got := NewOptions(Settings{}, "", "").Proxy; got != "" {
		t.Errorf("expected no proxy, got %q", got)
	}
}

func TestOptions_WithAudio(t *testing.T) {
	base := NewOptions(Settings{}, "", "/scratch")
	audio := base.WithAudio()

	if base.Audio != nil {
		t.Error("WithAudio must not modify the receiver")
	}
	if audio.Audio == nil {
		t.Fatal("expected audio options")
	}
	if audio.Audio.Codec != "mp3" || audio.Audio.Quality != "192K" {
		t.Errorf("unexpected audio options: %+v", audio.Audio)
	}
	if !strings.HasSuffix(audio.Audio.FormatSelector, "/best") {
		t.Errorf("format selector should fall back to best, got %q", audio.Audio.FormatSelector)
	}
}

func TestTokenProviderArgs_Default(t *testing.T) {
	want := "youtubepot-bgutilhttp:base_url=http://127.0.0.1:4416"
	if got := TokenProviderArgs(""); got != want {
		t.Errorf("TokenProviderArgs(\"\") = %q, want %q", got, want)
	}
}

func TestInfo_Fallbacks(t *testing.T) {
	info := &Info{ID: "abc123"}
	if info.TitleOrID() != "abc123" {
		t.Errorf("TitleOrID() = %q", info.TitleOrID())
	}
	if info.ChannelOrUnknown() != "Unknown" {
		t.Errorf("ChannelOrUnknown() = %q", info.ChannelOrUnknown())
	}
}
