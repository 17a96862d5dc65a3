package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_NilConfig(t *testing.T) {
	log, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) returned error: %v", err)
	}
	if log == nil {
		t.Fatal("New(nil) returned nil logger")
	}
	log.Info("nil config uses defaults", zap.String("key", "value"))
	_ = log.Sync()
}

func TestNew_PartialConfig(t *testing.T) {
	cfg := &Config{Level: "debug"}
	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.Encoding != "json" {
		t.Errorf("expected encoding merged to json, got %q", cfg.Encoding)
	}
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stdout" {
		t.Errorf("expected output paths merged to [stdout], got %v", cfg.OutputPaths)
	}
	log.Debug("debug enabled")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "verbose"})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
	if !strings.Contains(err.Error(), "invalid level") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_InvalidEncoding(t *testing.T) {
	_, err := New(&Config{Encoding: "yaml"})
	if err == nil {
		t.Fatal("expected error for invalid encoding")
	}
	if !strings.Contains(err.Error(), "invalid encoding") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_ConsoleEncoding(t *testing.T) {
	log, err := New(&Config{Encoding: "console"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	log.Info("console encoding works")
}

func TestNop(t *testing.T) {
	log := Nop()
	if log == nil {
		t.Fatal("Nop returned nil logger")
	}
	log.Debug("discarded")
	log.Info("discarded")
	log.Warn("discarded")
	log.Error("discarded")
	if err := log.Sync(); err != nil {
		t.Errorf("Nop().Sync() returned error: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
	if cfg.Encoding != "json" {
		t.Errorf("expected default encoding json, got %q", cfg.Encoding)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
