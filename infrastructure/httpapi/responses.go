package httpapi

import (
	"time"

	"yt-audio-vault/application/audio"
	"yt-audio-vault/domain/extraction"
)

type urlRequest struct {
	URL string `json:"url"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type downloadResponse struct {
	Success  bool    `json:"success"`
	VideoID  string  `json:"video_id"`
	Title    string  `json:"title"`
	Channel  string  `json:"channel"`
	Duration float64 `json:"duration_seconds"`
	FileSize int64   `json:"file_size_bytes"`
	GCSPath  string  `json:"gcs_path"`
	URL      string  `json:"url"`
}

type batchFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

type batchResponse struct {
	Results []any `json:"results"`
}

type infoResponse struct {
	VideoID    string  `json:"video_id"`
	Title      string  `json:"title"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration_seconds"`
	ViewCount  int64   `json:"view_count"`
	UploadDate string  `json:"upload_date"`
	Thumbnail  string  `json:"thumbnail"`
}

type formatsResponse struct {
	VideoID string              `json:"video_id"`
	Title   string              `json:"title"`
	Formats []extraction.Format `json:"formats"`
}

type fileEntry struct {
	Name      string            `json:"name"`
	SizeBytes int64             `json:"size_bytes"`
	Created   *string           `json:"created"`
	Metadata  map[string]string `json:"metadata"`
	URL       string            `json:"url"`
}

type listResponse struct {
	Files []fileEntry `json:"files"`
	Count int         `json:"count"`
}

type healthResponse struct {
	Status           string `json:"status"`
	BucketConfigured bool   `json:"bucket_configured"`
	ProxyConfigured  bool   `json:"proxy_configured"`
	CookiesAvailable bool   `json:"cookies_available"`
	POTProviderURL   string `json:"pot_provider_url"`
}

func newDownloadResponse(r *audio.DownloadResult) downloadResponse {
	return downloadResponse{
		Success:  true,
		VideoID:  r.VideoID,
		Title:    r.Title,
		Channel:  r.Channel,
		Duration: r.Duration,
		FileSize: r.FileSize,
		GCSPath:  r.StorePath,
		URL:      r.AccessURL,
	}
}

func newFileEntry(e audio.LibraryEntry) fileEntry {
	entry := fileEntry{
		Name:      e.Key,
		SizeBytes: e.Size,
		Metadata:  e.Metadata,
		URL:       e.AccessURL,
	}
	if !e.Created.IsZero() {
		created := e.Created.UTC().Format(time.RFC3339)
		entry.Created = &created
	}
	return entry
}

// apiIndex is the static description served at GET /
var apiIndex = map[string]any{
	"name": "YouTube Audio Vault API",
	"endpoints": map[string]string{
		"POST /download":            "Download single video as audio",
		"POST /batch":               "Download multiple videos as audio",
		"POST /info":                "Get video info without downloading",
		"POST /formats":             "List available formats for a video",
		"GET /list":                 "List all audio files in bucket",
		"DELETE /delete/{video_id}": "Delete an audio file",
		"POST /refresh-cookies":     "Re-fetch the cookie file from the bucket",
		"GET /health":               "Health check",
		"GET /metrics":              "Prometheus metrics",
	},
	"example": map[string]any{
		"download": map[string]string{"url": "https://www.youtube.com/watch?v=VIDEO_ID"},
		"batch": map[string][]string{"urls": {
			"https://www.youtube.com/watch?v=ID1",
			"https://www.youtube.com/watch?v=ID2",
		}},
		"info": map[string]string{"url": "https://www.youtube.com/watch?v=VIDEO_ID"},
	},
}
