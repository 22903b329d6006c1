package extraction

import (
	"fmt"
	"path/filepath"
	"time"
)

// Reliability defaults applied to every extraction
const (
	DefaultRetries          = 5
	DefaultFragmentRetries  = 5
	DefaultExtractorRetries = 3
	DefaultSocketTimeout    = 60 * time.Second

	// DefaultUserAgent is sent as the User-Agent header so requests look like a desktop browser
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// DefaultPOTProviderURL is where the proof-of-origin token provider listens by default
	DefaultPOTProviderURL = "http://127.0.0.1:4416"
)

// Audio post-processing defaults
const (
	AudioFormatSelector = "bestaudio[ext=m4a]/bestaudio[ext=webm]/bestaudio/best"
	AudioCodec          = "mp3"
	AudioQuality        = "192K"
)

// Strategy names how extraction gets past anti-bot checks
type Strategy int

const (
	// StrategyTokenProviderFallback sends requests unauthenticated with tokens from the provider
	StrategyTokenProviderFallback Strategy = iota
	// StrategyCookieAuthenticated sends the cookie bundle with every request
	StrategyCookieAuthenticated
)

func (s Strategy) String() string {
	if s == StrategyCookieAuthenticated {
		return "cookie_authenticated"
	}
	return "token_provider_fallback"
}

// SelectStrategy picks cookie authentication whenever a cookie file is usable
func SelectStrategy(cookieFile string) Strategy {
	if cookieFile != "" {
		return StrategyCookieAuthenticated
	}
	return StrategyTokenProviderFallback
}

// Settings holds the configured knobs the option builder reads
type Settings struct {
	ProxyURL       string
	POTProviderURL string
}

// AudioOptions selects a stream and converts it to MP3
type AudioOptions struct {
	FormatSelector string
	Codec          string
	Quality        string
}

// Options is the parameter set handed to the extraction tool
type Options struct {
	Retries             int
	FragmentRetries     int
	ExtractorRetries    int
	SocketTimeout       time.Duration
	NoPlaylist          bool
	GeoBypass           bool
	NoCheckCertificates bool
	UserAgent           string

	Proxy    string
	Strategy Strategy

	// CookieFile is set only for StrategyCookieAuthenticated
	CookieFile string
	// ExtractorArgs is set only for StrategyTokenProviderFallback
	ExtractorArgs string

	OutputTemplate string
	SkipDownload   bool

	Audio *AudioOptions
}

// NewOptions builds the extraction parameters from settings and credential state.
// An empty outputDir yields options for metadata-only calls that must not write files.
func NewOptions(settings Settings, cookieFile string, outputDir string) Options {
	opts := Options{
		Retries:             DefaultRetries,
		FragmentRetries:     DefaultFragmentRetries,
		ExtractorRetries:    DefaultExtractorRetries,
		SocketTimeout:       DefaultSocketTimeout,
		NoPlaylist:          true,
		GeoBypass:           true,
		NoCheckCertificates: true,
		UserAgent:           DefaultUserAgent,
		Proxy:               settings.ProxyURL,
		Strategy:            SelectStrategy(cookieFile),
	}

	switch opts.Strategy {
	case StrategyCookieAuthenticated:
		opts.CookieFile = cookieFile
	case StrategyTokenProviderFallback:
		opts.ExtractorArgs = TokenProviderArgs(settings.POTProviderURL)
	}

	if outputDir != "" {
		opts.OutputTemplate = filepath.Join(outputDir, "%(id)s.%(ext)s")
	} else {
		opts.SkipDownload = true
	}

	return opts
}

// WithAudio returns a copy of the options that selects an audio stream and converts it to MP3
func (o Options) WithAudio() Options {
	o.Audio = &AudioOptions{
		FormatSelector: AudioFormatSelector,
		Codec:          AudioCodec,
		Quality:        AudioQuality,
	}
	return o
}

// TokenProviderArgs returns the extractor argument pointing at the token provider
func TokenProviderArgs(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultPOTProviderURL
	}
	return fmt.Sprintf("youtubepot-bgutilhttp:base_url=%s", baseURL)
}
