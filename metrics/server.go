package metrics

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinscope/market-pipeline/config"
)

// Server exposes the recorded collectors over HTTP for scraping
type Server struct {
	cfg config.MetricsConfig

	server   *http.Server
	listener net.Listener
}

// NewServer creates the exposition endpoint from config
func NewServer(cfg config.MetricsConfig) *Server {
	return &Server{cfg: cfg}
}

// Start binds the listener and begins serving /metrics. A disabled config
// makes Start a no-op.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return err
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s.server = &http.Server{Handler: mux}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics: server error: %v", err)
		}
	}()

	log.Printf("Metrics: serving /metrics on %s", listener.Addr())
	return nil
}

// Stop shuts the listener down
func (s *Server) Stop() {
	if s.server != nil {
		if err := s.server.Shutdown(context.Background()); err != nil {
			log.Printf("Metrics: error shutting down server: %v", err)
		}
	}
}

// Addr returns the bound listen address, empty when not serving
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
