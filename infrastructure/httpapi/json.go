package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"yt-audio-vault/domain/failure"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeFailure maps a classified error to its status code and an {error} body
func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, failure.StatusCode(failure.KindOf(err)), errorResponse{Error: failure.Message(err)})
}

// decodeBody decodes a JSON request body into T. A missing or malformed body
// yields the zero value so handlers report their own validation message.
func decodeBody[T any](r *http.Request) T {
	var zero T
	if r.Body == nil {
		return zero
	}
	defer r.Body.Close()

	var dest T
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&dest); err != nil {
		return zero
	}
	return dest
}
