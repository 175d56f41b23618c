package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

const defaultRejectThreshold = 2

func LoadPolicy() (*PolicyConfig, error) {
	path := os.Getenv("POLICY_CONFIG_PATH")
	if path == "" {
		path = "configs/policy.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PolicyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *PolicyConfig) {
	if cfg.Thresholds == nil {
		cfg.Thresholds = make(map[string]int, len(models.AllCategories))
		for _, category := range models.AllCategories {
			cfg.Thresholds[string(category)] = defaultRejectThreshold
		}
	}
	if len(cfg.Upload.AllowedExtensions) == 0 {
		cfg.Upload.AllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 16 << 20
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 1800
	}
}
