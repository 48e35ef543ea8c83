package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/klaus-deor/maito-guy-fit/internal/auth"
	"github.com/klaus-deor/maito-guy-fit/internal/config"
	apihttp "github.com/klaus-deor/maito-guy-fit/internal/http"
	"github.com/klaus-deor/maito-guy-fit/internal/metrics"
	"github.com/klaus-deor/maito-guy-fit/internal/ratelimit"
	"github.com/klaus-deor/maito-guy-fit/internal/relay"
)

// Janela e teto do rate limit do chat, como no proxy original.
const (
	rateLimitWindow = time.Minute
	rateLimitMax    = 10
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	limiter := ratelimit.New(rateLimitWindow, rateLimitMax)
	relayClient := relay.NewClient(cfg.N8NWebhookURL, cfg.WebhookSecret, nil, logger)
	m := metrics.New()

	var profiles apihttp.ProfileStore
	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		profiles = auth.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)
	} else {
		logger.Info("provedor de identidade não configurado, chat segue sem enriquecer perfis")
	}

	chatHandler := apihttp.NewChatHandler(logger, relayClient, profiles, m)
	router := apihttp.NewRouter(logger, cfg.FrontendURL, limiter, m, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("servidor iniciado",
			zap.String("port", cfg.Port),
			zap.Bool("webhook_configurado", cfg.N8NWebhookURL != ""),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("encerrando servidor")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
