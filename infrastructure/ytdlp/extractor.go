package ytdlp

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"yt-audio-vault/domain/extraction"

	"github.com/lrstanley/go-ytdlp"
)

// endOfOptions stops yt-dlp from reading the URL as a flag
const endOfOptions = "--"

// Runner defines the interface for executing a built yt-dlp command
// This allows replacing the yt-dlp binary in tests
type Runner interface {
	Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error)
}

// BinaryRunner is the production implementation running the yt-dlp binary
type BinaryRunner struct{}

// Run executes cmd with args appended
func (r *BinaryRunner) Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, args...)
}

// Extractor implements extraction.Extractor using yt-dlp
type Extractor struct {
	runner Runner
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithRunner sets a custom runner (for testing)
func WithRunner(runner Runner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// NewExtractor creates a new yt-dlp based extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		runner: &BinaryRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract implements extraction.Extractor
func (e *Extractor) Extract(ctx context.Context, url string, opts extraction.Options) (*extraction.Info, error) {
	result, err := e.runner.Run(ctx, BuildCommand(opts), endOfOptions, url)
	if err != nil {
		return nil, errors.New(failureMessage(result, err))
	}

	info, err := parseInfo(result.Stdout)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// BuildCommand translates extraction options into a yt-dlp command
func BuildCommand(opts extraction.Options) *ytdlp.Command {
	cmd := ytdlp.New().
		PrintJSON().
		Retries(strconv.Itoa(opts.Retries)).
		FragmentRetries(strconv.Itoa(opts.FragmentRetries)).
		ExtractorRetries(strconv.Itoa(opts.ExtractorRetries)).
		SocketTimeout(opts.SocketTimeout.Seconds())

	if opts.NoPlaylist {
		cmd = cmd.NoPlaylist()
	}
	if opts.GeoBypass {
		cmd = cmd.GeoBypass()
	}
	if opts.NoCheckCertificates {
		cmd = cmd.NoCheckCertificates()
	}
	// AddHeaders keeps a single value, so only the User-Agent is sent
	if opts.UserAgent != "" {
		cmd = cmd.AddHeaders("User-Agent:" + opts.UserAgent)
	}
	if opts.Proxy != "" {
		cmd = cmd.Proxy(opts.Proxy)
	}

	switch opts.Strategy {
	case extraction.StrategyCookieAuthenticated:
		cmd = cmd.Cookies(opts.CookieFile)
	case extraction.StrategyTokenProviderFallback:
		if opts.ExtractorArgs != "" {
			cmd = cmd.ExtractorArgs(opts.ExtractorArgs)
		}
	}

	if opts.SkipDownload {
		return cmd.SkipDownload()
	}

	if opts.OutputTemplate != "" {
		cmd = cmd.Output(opts.OutputTemplate)
	}
	if opts.Audio != nil {
		cmd = cmd.
			Format(opts.Audio.FormatSelector).
			ExtractAudio().
			AudioFormat(opts.Audio.Codec).
			AudioQuality(opts.Audio.Quality)
	}
	return cmd
}

// failureMessage prefers the last ERROR line yt-dlp wrote over the exit status
func failureMessage(result *ytdlp.Result, err error) string {
	if result != nil {
		lines := strings.Split(strings.TrimSpace(result.Stderr), "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if strings.HasPrefix(line, "ERROR:") {
				return line
			}
		}
	}
	return err.Error()
}

// Ensure Extractor implements extraction.Extractor
var _ extraction.Extractor = (*Extractor)(nil)
