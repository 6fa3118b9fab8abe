package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr=%q, expected :8080", cfg.HTTPAddr)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL=%s, expected 24h", cfg.JWTTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("JWT_SECRET", "abc")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr=%q, expected :9999", cfg.HTTPAddr)
	}
	if cfg.JWTTTL != 30*time.Minute {
		t.Fatalf("JWTTTL=%s, expected 30m", cfg.JWTTTL)
	}
	if cfg.JWTSecret != "abc" {
		t.Fatalf("JWTSecret=%q, expected abc", cfg.JWTSecret)
	}
}

func TestGetenvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "not-a-number")
	cfg := Load()
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL=%s, expected default 24h", cfg.JWTTTL)
	}
}
