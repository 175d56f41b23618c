package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sumersovitkargit/content-safety-gateway/internal/setup"
	"github.com/sumersovitkargit/content-safety-gateway/internal/setup/logger"
	"github.com/sumersovitkargit/content-safety-gateway/internal/stream"
	"github.com/sumersovitkargit/content-safety-gateway/internal/stream/redis"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.NewConsole(os.Stderr, os.Getenv("LOG_LEVEL"))
	appLogger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	streamName := os.Getenv("MODERATION_STREAM")
	if streamName == "" {
		streamName = "moderation-events"
	}

	consumerName, _ := os.Hostname()
	if consumerName == "" {
		consumerName = "moderation-worker"
	}

	streamCfg := &stream.Config{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewStreamConfig(
			redisAddr,
			cfg.RedisPassword,
			streamName,
			"moderation-workers",
			consumerName,
		),
	}

	consumer, err := stream.NewConsumer(ctx, streamCfg, deps.Reviewer, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up consumer group")
	}

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Consumer stopped with error")
	}

	log.Info().Msg("Worker shut down")
}
