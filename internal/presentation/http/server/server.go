// Package server wraps the HTTP listener with timeouts and graceful
// shutdown around the tracking API routes.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/beaconworks/beacon-go/internal/application/container"
	"github.com/beaconworks/beacon-go/internal/presentation/http/routes"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// Server owns the http.Server and the container whose services back it.
type Server struct {
	httpServer *http.Server
	container  *container.Container
}

// New builds the server on the given port with routes wired to the container.
func New(port string, container *container.Container) *Server {
	router := routes.SetupRoutes(container)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		container:  container,
	}
}

// Start blocks serving HTTP requests until the listener closes.
func (s *Server) Start() error {
	s.container.Logger.System().Info("HTTP server listening", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop drains in-flight requests and closes the listener.
func (s *Server) Stop(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("Draining in-flight HTTP requests...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	s.container.Logger.Shutdown().Info("HTTP listener closed")
	return nil
}
