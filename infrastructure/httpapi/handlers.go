package httpapi

import (
	"net/http"

	"yt-audio-vault/domain/failure"

	"github.com/gorilla/mux"
)

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apiIndex)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		BucketConfigured: s.health.BucketConfigured,
		ProxyConfigured:  s.health.ProxyConfigured,
		CookiesAvailable: s.cookies.Available(),
		POTProviderURL:   s.health.POTProviderURL,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[urlRequest](r)

	result, err := s.audio.Download(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDownloadResponse(result))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[batchRequest](r)

	items, err := s.audio.Batch(r.Context(), req.URLs)
	if err != nil {
		writeFailure(w, err)
		return
	}

	results := make([]any, 0, len(items))
	for _, item := range items {
		if item.Err != nil {
			results = append(results, batchFailure{URL: item.URL, Error: failure.Message(item.Err)})
			continue
		}
		results = append(results, newDownloadResponse(item.Result))
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[urlRequest](r)

	info, err := s.audio.Info(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infoResponse{
		VideoID:    info.ID,
		Title:      info.Title,
		Channel:    info.Channel,
		Duration:   info.Duration,
		ViewCount:  info.ViewCount,
		UploadDate: info.UploadDate,
		Thumbnail:  info.Thumbnail,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[urlRequest](r)

	info, err := s.audio.Formats(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatsResponse{
		VideoID: info.ID,
		Title:   info.Title,
		Formats: info.Formats,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.audio.List(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}

	files := make([]fileEntry, 0, len(entries))
	for _, e := range entries {
		files = append(files, newFileEntry(e))
	}
	writeJSON(w, http.StatusOK, listResponse{Files: files, Count: len(files)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	message, err := s.audio.Delete(r.Context(), mux.Vars(r)["video_id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: message})
}

func (s *Server) handleRefreshCookies(w http.ResponseWriter, r *http.Request) {
	if !s.cookies.Refresh(r.Context()) {
		writeJSON(w, http.StatusNotFound, messageResponse{Success: false, Message: "Cookie file not found in bucket"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Cookies refreshed"})
}
