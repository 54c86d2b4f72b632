package httpapi

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is the store connectivity check behind /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewMux returns a mux carrying the operational routes. Feature modules add
// their own routes to it.
func NewMux(store Pinger) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, store)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
