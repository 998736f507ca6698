package http

import (
	"context"
	"errors"
	"fxsync/internal/config"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server exposes the read API on the configured port.
type Server struct {
	addr string
	srv  *http.Server
}

// Run blocks until ctx is canceled or serving fails. On cancellation in-flight
// requests get shutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	logrus.WithField("addr", listener.Addr().String()).Info("✅ HTTP server listening")

	served := make(chan error, 1)
	go func() {
		served <- s.srv.Serve(listener)
	}()

	select {
	case err = <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logrus.Info("HTTP server stopped")
	return nil
}

func NewServer(cfg config.HTTPServer, handler http.Handler) *Server {
	return &Server{
		addr: ":" + cfg.Port,
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: readHeaderTimeout},
	}
}
