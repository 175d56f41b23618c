package config

import (
	"fmt"
	"time"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

// PolicyConfig is the moderation policy loaded from YAML.
type PolicyConfig struct {
	Thresholds map[string]int `yaml:"thresholds"`
	Upload     UploadConfig   `yaml:"upload"`
	Cache      CacheConfig    `yaml:"cache"`
}

// UploadConfig limits what the upload endpoint accepts.
type UploadConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxBytes          int64    `yaml:"max_bytes"`
}

// CacheConfig controls the review cache.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RejectThresholds converts the raw YAML map into typed thresholds.
// Thresholds is only valid after Validate has passed.
func (p *PolicyConfig) RejectThresholds() models.Thresholds {
	thresholds := make(models.Thresholds, len(p.Thresholds))
	for name, threshold := range p.Thresholds {
		thresholds[models.Category(name)] = threshold
	}
	return thresholds
}

// ExtensionAllowed reports whether a lowercase file extension (without the
// leading dot) is on the allow list.
func (p *PolicyConfig) ExtensionAllowed(ext string) bool {
	for _, allowed := range p.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (p *PolicyConfig) Validate() error {
	for name := range p.Thresholds {
		if _, err := models.ParseCategory(name); err != nil {
			return fmt.Errorf("invalid threshold entry: %w", err)
		}
	}

	if p.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max_bytes must be positive, got %d", p.Upload.MaxBytes)
	}
	if len(p.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload allowed_extensions must not be empty")
	}

	return nil
}
