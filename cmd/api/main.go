package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"match-backend/config"
	_ "match-backend/docs" // Important for Swagger
	"match-backend/internal/app"
	"match-backend/pkg/logger"
)

// @title           Match Backend API
// @version         1.0
// @description     Profiles, reactions and matches for a dating app.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting match backend", "port", cfg.Port, "store", cfg.StoreBackend)

	// 3. Run until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		logger.Log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
