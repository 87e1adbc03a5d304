package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cca_wallet/internal/app/chaingate"
	"cca_wallet/internal/infrastructure/restapi"
	"cca_wallet/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// serve: run the HTTP API until SIGINT or SIGTERM.
func serveCmd() *cobra.Command {
	var swaggerSpec string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wallet HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appCtx.cfg
			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			handler := restapi.NewWalletHandler(
				appCtx.selector,
				appCtx.chains,
				appCtx.directory,
				appCtx.balances,
				appCtx.transactions,
				func(chainID string) bool { return chaingate.Check(chainID).Authorized },
				logger.NewComponentAdapter("http"),
			)
			router := restapi.SetupRouter(handler, restapi.RouterOptions{
				Logger:         appCtx.zap.Named("http"),
				AllowedOrigins: cfg.CORS.AllowedOrigins,
				SwaggerEnabled: cfg.Swagger.Enabled,
				SwaggerPath:    cfg.Swagger.Path,
				SwaggerSpec:    swaggerSpec,
			})

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
				Handler:      router,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "address", srv.Addr, "selected_chain", appCtx.selector.Current())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-serveErr:
				if err != nil {
					logger.Error("HTTP server failed", "error", err)
					return err
				}
				return nil
			case <-quit:
			}

			logger.Info("Shutdown signal received, stopping HTTP server")
			appCtx.directory.CancelAll()
			appCtx.balances.CancelAll()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown failed", "error", err)
				return err
			}
			logger.Info("HTTP server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&swaggerSpec, "swagger-spec", "docs/swagger.yaml", "swagger.yaml served when swagger is enabled")
	return cmd
}
