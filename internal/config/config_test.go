package config

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PATIENTDESK_DATA_FILE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataFile != "patients.txt" {
		t.Errorf("expected default data file patients.txt, got %s", cfg.DataFile)
	}
	if cfg.Env != "production" {
		t.Errorf("expected default env production, got %s", cfg.Env)
	}
	if cfg.Level() != zerolog.WarnLevel {
		t.Errorf("expected default warn level, got %s", cfg.Level())
	}
	if cfg.StrictLoad {
		t.Error("expected StrictLoad to default to false")
	}
}

func TestLoad_WithEnv(t *testing.T) {
	t.Setenv("PATIENTDESK_DATA_FILE", "/tmp/records.txt")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENV", "development")
	t.Setenv("STRICT_LOAD", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataFile != "/tmp/records.txt" {
		t.Errorf("expected data file to be set, got %s", cfg.DataFile)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", cfg.Level())
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}
	if !cfg.StrictLoad {
		t.Error("expected StrictLoad to be true")
	}
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("PATIENTDESK_DATA_FILE", "patients.txt")
	t.Setenv("LOG_LEVEL", "chatty")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown LOG_LEVEL")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_LevelFallsBackToWarn(t *testing.T) {
	c := &Config{}
	if c.Level() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %s", c.Level())
	}
}
