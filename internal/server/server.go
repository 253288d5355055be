package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitsocial/backend/internal/config"
)

// NewHTTPServer serves router on the configured address for the lifetime of the fx app.
func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, logger *zap.SugaredLogger) *http.Server {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Infow("HTTP server listening", "addr", ln.Addr().String())
			logger.Infof("Swagger UI is available at http://%s/swagger/index.html", ln.Addr().String())
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Fatalw("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
