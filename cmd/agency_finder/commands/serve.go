package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/agency-finder/api"
	"github.com/gcbaptista/agency-finder/internal/analytics"
	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/jobs"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/internal/matcher"
)

const (
	shutdownTimeout = 10 * time.Second
	importWorkers   = 2
)

// ServeCmd starts the HTTP API.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = Settings.Server.Port
		}
		return runServer(cmd.Context(), port)
	},
}

func init() {
	ServeCmd.Flags().String("port", "", "Port to listen on (overrides server.port)")
}

func runServer(ctx context.Context, port string) error {
	backend, eng, err := openBackend(Settings.Backend)
	if err != nil {
		return err
	}

	var (
		records    api.LocalRecords
		jobManager *jobs.Manager
	)
	if eng != nil {
		records = eng
		jobManager = jobs.NewManager(importWorkers)
		jobManager.Start()
		defer jobManager.Stop()
	}
	handler := api.NewAPI(matcher.NewService(backend, Settings.Search), analytics.NewService(), records, jobManager)

	if !Settings.Log.JSON {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.RequestLoggerMiddleware(logger.Named("http")),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(Settings.Server.MaxBodyBytes),
	)
	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Logger.Infow("Starting server", logger.FieldAddress, server.Addr, logger.FieldBackend, backend.Name())
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Logger.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}
