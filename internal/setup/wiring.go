package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sumersovitkargit/content-safety-gateway/internal/audit"
	"github.com/sumersovitkargit/content-safety-gateway/internal/cache"
	"github.com/sumersovitkargit/content-safety-gateway/internal/config"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider/azure"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider/bedrockguard"
	redisconn "github.com/sumersovitkargit/content-safety-gateway/internal/redis"
	"github.com/sumersovitkargit/content-safety-gateway/internal/reviewer"
)

type Config struct {
	Provider string

	AzureEndpoint   string
	AzureKey        string
	AzureAPIVersion string
	AzureTimeout    time.Duration

	AWSRegion        string
	GuardrailID      string
	GuardrailVersion string

	RedisAddr     string
	RedisPassword string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDatabase string
	PostgresSSLMode  string
}

type Dependencies struct {
	Reviewer *reviewer.Reviewer
	Audit    *audit.Store
	Policy   *config.PolicyConfig
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		Provider:         getEnv("MODERATION_PROVIDER", "azure"),
		AzureEndpoint:    getEnv("AZURE_CS_ENDPOINT", ""),
		AzureKey:         getEnv("AZURE_CS_KEY", ""),
		AzureAPIVersion:  getEnv("AZURE_CS_API_VERSION", azure.DefaultAPIVersion),
		AzureTimeout:     getEnvDuration("AZURE_CS_TIMEOUT", 30*time.Second),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		GuardrailID:      getEnv("GUARDRAIL_ID", ""),
		GuardrailVersion: getEnv("GUARDRAIL_VERSION", "DRAFT"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDatabase: getEnv("POSTGRES_DB", "moderation"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	policy, err := config.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load moderation policy: %w", err)
	}

	detector, err := createDetector(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation provider: %w", err)
	}

	var reviewCache reviewer.DecisionCache
	if cfg.RedisAddr != "" {
		redisClient, err := redisconn.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to connect review cache: %w", err)
		}
		reviewCache = cache.NewReviewCache(redisClient, "review:", policy.Cache.TTL())
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, review cache disabled")
	}

	var auditStore *audit.Store
	if cfg.PostgresHost != "" {
		auditStore, err = audit.New(ctx, audit.Config{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			Database: cfg.PostgresDatabase,
			SSLMode:  cfg.PostgresSSLMode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect audit store: %w", err)
		}
		if err := auditStore.Ping(ctx); err != nil {
			return nil, fmt.Errorf("audit store ping failed: %w", err)
		}
	} else {
		logger.Warn().Msg("POSTGRES_HOST not set, audit store disabled")
	}

	var auditIface reviewer.AuditStore
	if auditStore != nil {
		auditIface = auditStore
	}

	rev := reviewer.New(detector, policy.RejectThresholds(), reviewCache, auditIface, logger)

	logger.Info().
		Str("provider", detector.Name()).
		Bool("cache", reviewCache != nil).
		Bool("audit", auditStore != nil).
		Msg("gateway wired")

	return &Dependencies{
		Reviewer: rev,
		Audit:    auditStore,
		Policy:   policy,
		Logger:   logger,
	}, nil
}

func createDetector(ctx context.Context, cfg *Config) (provider.Detector, error) {
	switch cfg.Provider {
	case "azure", "":
		return azure.NewClient(cfg.AzureEndpoint, cfg.AzureKey, cfg.AzureAPIVersion, cfg.AzureTimeout)
	case "bedrock":
		return bedrockguard.NewClient(ctx, cfg.AWSRegion, cfg.GuardrailID, cfg.GuardrailVersion)
	default:
		return nil, fmt.Errorf("unknown moderation provider %q", cfg.Provider)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
