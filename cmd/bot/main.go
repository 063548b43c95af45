package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"psdevbot/config"
	"psdevbot/internal/httpserver"
	"psdevbot/internal/relay"
	"psdevbot/internal/webhook"
	"psdevbot/pkg/githubapi"
	"psdevbot/pkg/log"
)

func main() {
	// 1. Configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting psdevbot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Showdown server: %s as %s", cfg.Showdown.Server, cfg.Showdown.User)

	// 3. GitHub user metadata client (optional)
	var github *githubapi.Client
	if cfg.GitHubAPI.User != "" && cfg.GitHubAPI.Password != "" {
		github = githubapi.NewClient(cfg.GitHubAPI.User, cfg.GitHubAPI.Password, logger)
		logger.Info(ctx, "GitHub user metadata lookups enabled")
	} else {
		logger.Warn(ctx, "GitHub API credentials missing, commit authors will not be linked")
	}

	// 4. Showdown relay
	r := relay.New(logger, relay.Config{
		Showdown: cfg.Showdown,
		Rooms:    cfg.AllRooms(),
	})
	go r.Run(ctx)

	// 5. Webhook handler
	webhookHandler := webhook.NewHandler(logger, cfg, r, github)

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		WebhookHandler: webhookHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
