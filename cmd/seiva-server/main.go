package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"seiva/internal/ai"
	"seiva/internal/amqp"
	"seiva/internal/backend"
	"seiva/internal/config"
	"seiva/internal/core"
	apphttp "seiva/internal/http"
	"seiva/internal/log"
	"seiva/internal/pdf"
	"seiva/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent("seiva-server")
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}
	logger.Info("Data backend initialized", "backend", cfg.DataBackend)

	// AMQP is optional: without it the sqlite mirror simply stops receiving
	// events, the API keeps working.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, mirror events disabled", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var assistant apphttp.Assistant
	if cfg.GeminiAPIKey != "" {
		aiClient, err := ai.NewClient(context.Background(), cfg.GeminiAPIKey, logger)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer aiClient.Close()
		assistant = aiClient
		logger.Info("Gemini client initialized")
	} else {
		logger.Info("Assistant disabled - no GEMINI_API_KEY provided")
	}

	rule := core.TuitionRule{
		AccountCode:  cfg.TuitionAccountCode,
		BaseValue:    cfg.TuitionBaseValue,
		ThresholdDay: cfg.TuitionThresholdDay,
		PenaltyRate:  cfg.TuitionPenaltyRate,
	}

	reconciler := services.NewReconciler(result.Backend.Students, rule, amqpClient, logger)
	data := services.NewDataService(result.Backend.Transactions, result.Backend.Students, reconciler, amqpClient, logger)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		AccessPIN:      cfg.AccessPIN,
		DefaultLogoURL: cfg.LogoURL,
		TuitionRule:    rule,
		Data:           data,
		Settings:       result.Backend.Settings,
		Assistant:      assistant,
		Renderer:       pdf.NewRenderer(logger),
		Logger:         logger,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting seiva server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
