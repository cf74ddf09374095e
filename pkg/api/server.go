package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Server owns the echo instance and its listener.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

// NewServer builds the HTTP surface over svc.
func NewServer(addr string, svc Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(logger))

	NewHandler(svc, logger).Register(e)
	return &Server{echo: e, addr: addr, logger: logger}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// ListenAndServe blocks until the server stops. A graceful Shutdown
// returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting server", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
