package httpapi

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"climate-server/internal/config"
	"climate-server/internal/observability"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

func NewServer(cfg config.Config, mux *http.ServeMux, metrics *observability.Metrics) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      requestLogger(mux, clockwork.NewRealClock(), metrics),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}
