package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(nil),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected base defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("expected 7-day session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.SecureCookies {
		t.Fatalf("secure cookies must default off for local development")
	}
	if cfg.Mongo.Database != "marketplace" {
		t.Fatalf("unexpected mongo database: %q", cfg.Mongo.Database)
	}
}

func TestConfig_Overrides(t *testing.T) {
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target: &cfg,
		Lookuper: envconfig.MapLookuper(map[string]string{
			"SESSION_TTL":     "1h",
			"SECURE_COOKIES":  "true",
			"RAZORPAY_KEY_ID": "rzp_test_key",
		}),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if cfg.SessionTTL != time.Hour {
		t.Fatalf("override not applied: %s", cfg.SessionTTL)
	}
	if !cfg.SecureCookies {
		t.Fatalf("secure cookies override not applied")
	}
	if cfg.Razorpay.KeyID != "rzp_test_key" {
		t.Fatalf("razorpay key not read: %q", cfg.Razorpay.KeyID)
	}
}
