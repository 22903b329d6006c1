package ytdlp

import (
	"encoding/json"
	"fmt"
	"strings"

	"yt-audio-vault/domain/extraction"
)

// rawInfo mirrors the subset of yt-dlp's info JSON the service reads.
// Numeric fields may be null or floats depending on the extractor.
type rawInfo struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Channel    string      `json:"channel"`
	Uploader   string      `json:"uploader"`
	Duration   *float64    `json:"duration"`
	ViewCount  *float64    `json:"view_count"`
	UploadDate string      `json:"upload_date"`
	Thumbnail  string      `json:"thumbnail"`
	Formats    []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Resolution     string   `json:"resolution"`
	FileSize       *float64 `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
	ACodec         string   `json:"acodec"`
	VCodec         string   `json:"vcodec"`
}

// parseInfo decodes the last JSON document yt-dlp printed
func parseInfo(stdout string) (*extraction.Info, error) {
	line := lastJSONLine(stdout)
	if line == "" {
		return nil, fmt.Errorf("yt-dlp produced no video information")
	}

	var raw rawInfo
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("yt-dlp output has no video id")
	}

	info := &extraction.Info{
		ID:         raw.ID,
		Title:      raw.Title,
		Channel:    raw.Channel,
		Duration:   value(raw.Duration),
		ViewCount:  int64(value(raw.ViewCount)),
		UploadDate: raw.UploadDate,
		Thumbnail:  raw.Thumbnail,
		Formats:    make([]extraction.Format, 0, len(raw.Formats)),
	}
	if info.Channel == "" {
		info.Channel = raw.Uploader
	}

	for _, f := range raw.Formats {
		size := f.FileSize
		if size == nil {
			size = f.FileSizeApprox
		}
		info.Formats = append(info.Formats, extraction.Format{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			FileSize:   int64(value(size)),
			ACodec:     f.ACodec,
			VCodec:     f.VCodec,
		})
	}

	return info, nil
}

func lastJSONLine(stdout string) string {
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") {
			return line
		}
	}
	return ""
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
