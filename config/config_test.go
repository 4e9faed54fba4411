package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr() != "localhost:8080" {
		t.Errorf("expected default addr localhost:8080, got %s", cfg.Addr())
	}
	if cfg.DataDir != "data" || cfg.QRDir != "data/qrcodes" {
		t.Errorf("unexpected data dirs: %s, %s", cfg.DataDir, cfg.QRDir)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("expected 8h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("expected 5m sweep interval, got %s", cfg.SweepInterval)
	}
	if cfg.RateLimitPerMin != 10 {
		t.Errorf("expected rate limit 10, got %d", cfg.RateLimitPerMin)
	}
	if !cfg.GenerateQR {
		t.Error("expected QR generation on by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MIN", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("expected addr 0.0.0.0:9090, got %s", cfg.Addr())
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMin != 3 {
		t.Errorf("expected rate limit 3, got %d", cfg.RateLimitPerMin)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero rate limit")
	}

	t.Setenv("RATE_LIMIT_PER_MIN", "10")
	t.Setenv("SESSION_TTL", "-1h")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative TTL")
	}
}
