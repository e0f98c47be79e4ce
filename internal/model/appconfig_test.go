package model

import (
	"testing"
	"time"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected ListenAddr=:8080, got %s", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.PackTimeout() != 5*time.Second {
		t.Errorf("expected 5s pack timeout, got %v", cfg.PackTimeout())
	}
	if cfg.DefaultKerf != 0 || cfg.DefaultEdgeTrim != 0 {
		t.Errorf("expected zero kerf and trim, got %d/%d", cfg.DefaultKerf, cfg.DefaultEdgeTrim)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	var cfg AppConfig
	cfg.Normalize()

	defaults := DefaultAppConfig()
	if cfg.ListenAddr != defaults.ListenAddr {
		t.Errorf("expected ListenAddr=%s, got %s", defaults.ListenAddr, cfg.ListenAddr)
	}
	if cfg.ReadTimeoutMS != defaults.ReadTimeoutMS {
		t.Errorf("expected ReadTimeoutMS=%d, got %d", defaults.ReadTimeoutMS, cfg.ReadTimeoutMS)
	}
	if cfg.LogMaxSizeMB != defaults.LogMaxSizeMB {
		t.Errorf("expected LogMaxSizeMB=%d, got %d", defaults.LogMaxSizeMB, cfg.LogMaxSizeMB)
	}
	// Zero pack timeout means "no limit" and must survive normalization
	if cfg.PackTimeoutMS != 0 {
		t.Errorf("expected PackTimeoutMS=0 to be kept, got %d", cfg.PackTimeoutMS)
	}
}

func TestNormalizeClampsNegativeValues(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultKerf = -3
	cfg.DefaultEdgeTrim = -1
	cfg.PackTimeoutMS = -10
	cfg.Normalize()

	if cfg.DefaultKerf != 0 {
		t.Errorf("expected kerf clamped to 0, got %d", cfg.DefaultKerf)
	}
	if cfg.DefaultEdgeTrim != 0 {
		t.Errorf("expected edge trim clamped to 0, got %d", cfg.DefaultEdgeTrim)
	}
	if cfg.PackTimeoutMS != DefaultAppConfig().PackTimeoutMS {
		t.Errorf("expected default pack timeout, got %d", cfg.PackTimeoutMS)
	}
}
