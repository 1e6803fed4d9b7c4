package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"project-tracker/interfaces/api/handlers"
	"project-tracker/interfaces/api/middleware"
	"project-tracker/interfaces/api/routes"
	websocketHandler "project-tracker/interfaces/api/websocket"
	"project-tracker/pkg/di"
	"project-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// multipart header กับ field อื่นๆ ที่มากับไฟล์
const bodyLimitMargin = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	container := di.NewContainer()
	defer func() {
		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}
	}()

	if err := container.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	cfg := container.GetConfig()

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		AppName:               cfg.App.Name,
		BodyLimit:             int(cfg.Storage.MaxUploadSize) + bodyLimitMargin,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// RequestID ต้องมาก่อน logger
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.CORS.AllowOrigins))
	app.Use(middleware.MetricsMiddleware(container.Metrics))

	if cfg.Storage.Type == "local" {
		app.Static("/files", cfg.Storage.BasePath)
	}

	services := container.GetHandlerServices()
	h := handlers.NewHandlers(services)
	ws := websocketHandler.NewWebSocketHandler(container.Hub, container.UserService, container.ProjectService, container.Metrics)

	routes.SetupRoutes(app, h, middleware.Protected(container.UserService), ws)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			"port", cfg.App.Port,
			"env", cfg.App.Env,
			"app", cfg.App.Name,
		)
		errCh <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Gracefully shutting down...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("Server shutdown did not finish cleanly", "error", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
