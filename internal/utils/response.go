package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON encodes v before touching w, so an unencodable value turns into
// a 500 instead of a truncated 200.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
		writeRaw(w, http.StatusInternalServerError, contentTypeJSON, mustErrorBody(http.StatusInternalServerError, "failed to encode response"))
		return
	}
	writeRaw(w, status, contentTypeJSON, buf.Bytes())
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	writeRaw(w, status, contentTypeJSON, mustErrorBody(status, msg))
}

// WriteHTML runs render into a buffer and only then writes the page.
func WriteHTML(w http.ResponseWriter, status int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.Error("render HTML response", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	writeRaw(w, status, contentTypeHTML, buf.Bytes())
}

func mustErrorBody(status int, msg string) []byte {
	b, err := json.Marshal(ErrorBody{Error: http.StatusText(status), Message: msg})
	if err != nil {
		// Two strings always marshal.
		panic(err)
	}
	return append(b, '\n')
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("write response", "error", err)
	}
}
