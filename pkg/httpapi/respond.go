package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goliatone/go-contactform/pkg/controller"
)

// maxBodyBytes bounds JSON bodies and multipart uploads.
const maxBodyBytes = 12 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFor maps controller failures onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, controller.ErrNoSuchOption), errors.Is(err, controller.ErrFileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
