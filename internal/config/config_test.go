package config

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected an error without JWT_SECRET")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.AuthProvider != "local" {
		t.Errorf("expected default auth provider local, got %q", cfg.AuthProvider)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected 15m access token TTL, got %v", cfg.AccessTokenTTL)
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("expected one week session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.Pricing.BaseFare != 30 || cfg.Pricing.DistanceRate != 12 || cfg.Pricing.MinimumFare != 50 {
		t.Errorf("unexpected default tariff: %+v", cfg.Pricing)
	}
	if cfg.Pricing.QuoteCacheTTL != 10*time.Minute {
		t.Errorf("expected 10m quote TTL, got %v", cfg.Pricing.QuoteCacheTTL)
	}
}

func TestLoadConfigOverridesFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PRICING_BASE_FARE", "40")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.ServerPort)
	}
	if cfg.Pricing.BaseFare != 40 {
		t.Errorf("expected base fare 40, got %v", cfg.Pricing.BaseFare)
	}
}

func TestLoadConfigRejectsUnknownAuthProvider(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AUTH_PROVIDER", "github")

	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected an error for unknown auth provider")
	}
}
