package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

func writePolicy(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}
	t.Setenv("POLICY_CONFIG_PATH", path)
}

func TestLoadPolicy_FullConfig(t *testing.T) {
	writePolicy(t, `
thresholds:
  Hate: 2
  SelfHarm: 4
  Sexual: -1
  Violence: 2
upload:
  allowed_extensions: [png, jpg]
  max_bytes: 1048576
cache:
  ttl_seconds: 600
`)

	cfg, err := LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}

	thresholds := cfg.RejectThresholds()
	if thresholds[models.CategorySelfHarm] != 4 {
		t.Errorf("expected SelfHarm threshold 4, got %d", thresholds[models.CategorySelfHarm])
	}
	if thresholds[models.CategorySexual] != models.ThresholdDisabled {
		t.Errorf("expected Sexual threshold disabled, got %d", thresholds[models.CategorySexual])
	}
	if cfg.Upload.MaxBytes != 1048576 {
		t.Errorf("expected max_bytes 1048576, got %d", cfg.Upload.MaxBytes)
	}
	if cfg.Cache.TTL().Seconds() != 600 {
		t.Errorf("expected 600s TTL, got %v", cfg.Cache.TTL())
	}
}

func TestLoadPolicy_AppliesDefaults(t *testing.T) {
	writePolicy(t, `{}`)

	cfg, err := LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}

	thresholds := cfg.RejectThresholds()
	for _, category := range models.AllCategories {
		if thresholds[category] != 2 {
			t.Errorf("expected default threshold 2 for %s, got %d", category, thresholds[category])
		}
	}
	if cfg.Upload.MaxBytes != 16<<20 {
		t.Errorf("expected default 16MiB cap, got %d", cfg.Upload.MaxBytes)
	}
	if !cfg.ExtensionAllowed("gif") {
		t.Error("expected gif in default extension allow list")
	}
	if cfg.ExtensionAllowed("exe") {
		t.Error("exe must not be allowed")
	}
}

func TestLoadPolicy_RejectsUnknownCategory(t *testing.T) {
	writePolicy(t, `
thresholds:
  Profanity: 2
`)

	if _, err := LoadPolicy(); err == nil {
		t.Fatal("expected error for unknown category name")
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	t.Setenv("POLICY_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := LoadPolicy(); err == nil {
		t.Fatal("expected error for missing policy file")
	}
}
