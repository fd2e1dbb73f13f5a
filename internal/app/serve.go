package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/logger"
	"github.com/pagecraft/internal/router"
)

func init() { //nolint: gochecknoinits
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode (templates from disk, console log output)")

	rootCmd.AddCommand(serveCmd)
}

var (
	devMode bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the pagecraft web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
				cfg.GinMode = gin.DebugMode
				cfg.Log.Console.UseConsoleWriter = true
			}

			if err := logger.Init(cfg.Log); err != nil {
				return err
			}

			return serve(cmd.Context(), cfg)
		},
	}
)

func loadConfig() (config.AppConfig, error) {
	return config.Load(configPath)
}

// serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM arrives,
// then drains in-flight requests for at most cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	gdb, err := db.Init(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	engine, err := router.SetupRouter(cfg, gdb)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("admin_prefix", cfg.AdminPrefix).
			Str("db_driver", cfg.DB.Driver).
			Msg("http server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown requested, stopping http server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("http server was stopped")
	return nil
}
