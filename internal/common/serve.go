package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// ServeMetrics exposes the prometheus registry on its own port and returns a
// shutdown func.
func ServeMetrics(port uint16) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return ServeHttp(port, mux)
}

// ServeHttp starts an HTTP server in the background and returns a shutdown func.
func ServeHttp(port uint16, handler http.Handler) func() {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	go func() {
		log.Printf("Http listening on %d", port)
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	return func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Errorf("failed to shut down server on %d: %v", port, err)
		}
	}
}
