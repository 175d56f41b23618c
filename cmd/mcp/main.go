package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sumersovitkargit/content-safety-gateway/internal/mcpadapter"
	"github.com/sumersovitkargit/content-safety-gateway/internal/setup"
	"github.com/sumersovitkargit/content-safety-gateway/internal/setup/logger"
)

func main() {
	// Setup logging; stdout carries the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.NewConsole(os.Stderr, os.Getenv("LOG_LEVEL"))
	appLogger := log.Logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			appLogger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		appLogger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "content-safety-gateway",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moderate_text",
		Description: "Moderate a piece of text for hate, self-harm, sexual and violent content and return an accept/reject decision per category",
	}, mcpadapter.NewModerateTextHandler(deps.Reviewer))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moderate_image",
		Description: "Moderate a base64-encoded image for hate, self-harm, sexual and violent content and return an accept/reject decision per category",
	}, mcpadapter.NewModerateImageHandler(deps.Reviewer))

	return server
}
