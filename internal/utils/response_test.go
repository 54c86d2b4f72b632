package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content-type and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, []string{"USC00519397"})

		if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
		}
		if got := strings.TrimSpace(w.Body.String()); got != `["USC00519397"]` {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("empty slice stays an array", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, []float64{})
		if got := strings.TrimSpace(w.Body.String()); got != `[]` {
			t.Errorf("body = %s; want []", got)
		}
	})

	t.Run("unencodable value becomes 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Code = %d; want 500", w.Code)
		}
		var got ErrorBody
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("body is not valid JSON: %v", err)
		}
		if got.Message != "failed to encode response" {
			t.Errorf("message = %q", got.Message)
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	status := http.StatusBadRequest
	msg := `invalid date "not-a-date" (expected YYYY-MM-DD)`
	WriteError(w, status, msg)

	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
	}
	if w.Code != status {
		t.Errorf("Code = %d; want %d", w.Code, status)
	}

	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got["error"] != http.StatusText(status) {
		t.Errorf("error = %q; want %q", got["error"], http.StatusText(status))
	}
	if got["message"] != msg {
		t.Errorf("message = %q; want %q", got["message"], msg)
	}
}

func TestWriteHTML(t *testing.T) {
	t.Run("writes rendered page", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteHTML(w, http.StatusOK, func(out io.Writer) error {
			_, err := io.WriteString(out, "<!doctype html><p>hi</p>")
			return err
		})
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want 200", w.Code)
		}
		if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q", got)
		}
		if w.Body.String() != "<!doctype html><p>hi</p>" {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("render failure discards partial output", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteHTML(w, http.StatusOK, func(out io.Writer) error {
			_, _ = io.WriteString(out, "<!doctype html><p>half")
			return errors.New("template exploded")
		})
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Code = %d; want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "half") {
			t.Errorf("partial page leaked: %q", w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "failed to render page") {
			t.Errorf("body = %q", w.Body.String())
		}
	})
}
