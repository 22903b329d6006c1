package audio

import (
	"context"
	"strings"

	"yt-audio-vault/domain/extraction"
	"yt-audio-vault/domain/failure"
)

// Info returns a video's metadata without downloading it
func (s *Service) Info(ctx context.Context, url string) (*extraction.Info, error) {
	return s.lookup(ctx, extraction.Request{URL: strings.TrimSpace(url), Mode: extraction.ModeMetadataOnly})
}

// Formats returns the stream formats a video offers without selecting one
func (s *Service) Formats(ctx context.Context, url string) (*extraction.Info, error) {
	return s.lookup(ctx, extraction.Request{URL: strings.TrimSpace(url), Mode: extraction.ModeListFormats})
}

func (s *Service) lookup(ctx context.Context, req extraction.Request) (*extraction.Info, error) {
	if req.URL == "" {
		return nil, failure.Validation("No URL provided")
	}
	if !extraction.ValidURL(req.URL) {
		return nil, failure.Validation(invalidURLMessage)
	}

	opts := extraction.NewOptions(s.settings, s.cookies.Ensure(ctx), "")
	info, err := s.extractor.Extract(ctx, req.URL, opts)
	if err != nil {
		s.log(ctx).Warn("metadata lookup failed", "url", req.URL, "error", err)
		return nil, failure.Extraction(err)
	}

	if req.Mode != extraction.ModeListFormats {
		info.Formats = nil
	} else if info.Formats == nil {
		info.Formats = []extraction.Format{}
	}
	return info, nil
}
