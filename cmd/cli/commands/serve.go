package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/internal/server"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(app.Driver, app.Database, app.Logger, app.Cfg.AllowedOrigins)

			httpServer := &http.Server{
				Addr:    app.Cfg.ListenAddr,
				Handler: srv.Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("API server listening", zap.String("addr", app.Cfg.ListenAddr))
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				app.Logger.Info("Shutting down", zap.String("signal", sig.String()))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}
