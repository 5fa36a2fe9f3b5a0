package api

import (
	"io"
	"net/http"
)

// writeText writes a plain text response
func (rt *_router) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, body); err != nil {
		// Too late to change the status code, log it for diagnostics
		rt.baseLogger.WithError(err).Error("error writing response")
	}
}
