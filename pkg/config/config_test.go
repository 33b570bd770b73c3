//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "pw")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Model.Dir != "artifacts" {
		t.Errorf("model dir = %q, want artifacts", cfg.Model.Dir)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without REDIS_HOST")
	}
	if cfg.Catalog.BreakerTimeout != 30*time.Second {
		t.Errorf("breaker timeout = %v", cfg.Catalog.BreakerTimeout)
	}
	if len(cfg.Server.AllowOrigins) != 2 || cfg.Server.AllowOrigins[1] != "http://b.test" {
		t.Errorf("allow origins = %v", cfg.Server.AllowOrigins)
	}
}

func TestLoad_AdminSeed(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when ADMIN_EMAIL is set without ADMIN_PASSWORD")
	}

	t.Setenv("ADMIN_PASSWORD", "admin-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Admin.Email != "ops@example.com" || cfg.Admin.Name != "Administrator" {
		t.Errorf("admin = %+v", cfg.Admin)
	}
}

type scoringFixture struct {
	Outlier     float64   `koanf:"outlier_threshold"`
	MarginScale float64   `koanf:"margin_scale"`
	TopDrivers  int       `koanf:"top_drivers"`
	PriceTiers  []float64 `koanf:"price_tiers"`
	Rules       struct {
		ChurnRecencyDays float64 `koanf:"churn_recency_days"`
	} `koanf:"rules"`
}

func TestLoadScoring_FileAndEnvOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	body := "margin_scale: 50\nprice_tiers: [10, 20]\nrules:\n  churn_recency_days: 90\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SCORING_TOP_DRIVERS", "5")

	target := scoringFixture{Outlier: 2.0, MarginScale: 40, TopDrivers: 3}
	target.Rules.ChurnRecencyDays = 60

	if err := LoadScoring(path, &target); err != nil {
		t.Fatalf("LoadScoring: %v", err)
	}

	if target.Outlier != 2.0 {
		t.Errorf("outlier default lost: %v", target.Outlier)
	}
	if target.MarginScale != 50 {
		t.Errorf("margin scale = %v, want 50", target.MarginScale)
	}
	if target.TopDrivers != 5 {
		t.Errorf("top drivers = %v, want 5 from env", target.TopDrivers)
	}
	if len(target.PriceTiers) != 2 {
		t.Errorf("price tiers = %v", target.PriceTiers)
	}
	if target.Rules.ChurnRecencyDays != 90 {
		t.Errorf("nested rule = %v, want 90", target.Rules.ChurnRecencyDays)
	}
}

func TestLoadScoring_MissingFile(t *testing.T) {
	var target scoringFixture
	if err := LoadScoring(filepath.Join(t.TempDir(), "nope.yaml"), &target); err == nil {
		t.Fatal("expected error for missing file")
	}
}
