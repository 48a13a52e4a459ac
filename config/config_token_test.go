package config

import (
	"testing"
	"time"
)

func TestApplyTokenDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}

	applyTokenDefaults(cfg)

	if cfg.Token == nil {
		t.Fatal("expected token config to be created")
	}
	if cfg.Token.AccessTTL != time.Hour {
		t.Errorf("access TTL = %v, want %v", cfg.Token.AccessTTL, time.Hour)
	}
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Errorf("refresh TTL = %v, want %v", cfg.Token.RefreshTTL, 7*24*time.Hour)
	}
	if cfg.Token.Issuer == "" || cfg.Token.Audience == "" {
		t.Error("expected issuer and audience defaults to be set")
	}
}

func TestApplyTokenDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Token: &TokenConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 30 * 24 * time.Hour,
			Audience:   "mobile-app",
			Issuer:     "auth.example.com",
		},
	}

	applyTokenDefaults(cfg)

	if cfg.Token.AccessTTL != 15*time.Minute {
		t.Errorf("access TTL = %v, want 15m", cfg.Token.AccessTTL)
	}
	if cfg.Token.Audience != "mobile-app" || cfg.Token.Issuer != "auth.example.com" {
		t.Error("explicit claim values must not be overridden")
	}
}
