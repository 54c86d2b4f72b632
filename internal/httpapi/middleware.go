package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"

	"climate-server/internal/observability"
)

// unmatchedRoute labels requests no pattern matched. Raw paths never become
// label values.
const unmatchedRoute = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	return sr.ResponseWriter.Write(b)
}

// requestLogger logs one line per request and records it in metrics.
// ServeMux sets r.Pattern on the request it was given, so it is readable here
// once next returns.
func requestLogger(next http.Handler, clock clockwork.Clock, metrics *observability.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := clock.Now()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		elapsed := clock.Since(start)
		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}

		if metrics != nil {
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(sr.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", sr.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
