// Command api serves the permissions HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cyphera/gator-permissions/internal/config"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger(constants.DevEnvironment)
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.InitLoggerWithConfig(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Stage:       cfg.Stage,
		EnableJSON:  cfg.Stage == constants.ProdEnvironment,
		EnableColor: cfg.Stage != constants.ProdEnvironment,
	})
	defer func() { _ = logger.Sync() }()

	if cfg.Stage == constants.ProdEnvironment {
		gin.SetMode(gin.ReleaseMode)
	}

	// Cancelled on SIGINT/SIGTERM to start the graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.Build(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close application", zap.Error(err))
		}
	}()

	if err := app.Run(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
