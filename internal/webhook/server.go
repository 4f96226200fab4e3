package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type listenConfig interface {
	Listen() string
	Path() string
}

type Server struct {
	server *http.Server
}

func NewServer(cfg listenConfig, handler incomingHandler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              cfg.Listen(),
			Handler:           NewHandler(cfg.Path(), handler),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("webhook server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "webhook server")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "webhook shutdown")
	}
	logger.Info("webhook server stopped")
	return <-errCh
}
