package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
environment: development
server:
  port: 8080
backend:
  type: clickhouse
clickhouse:
  host: localhost
  port: 9000
  database: coinpulse
analysis:
  source: local
  symbols: [BTC, ETH]
  interval: 1h
  cycle_interval: 1h
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.Type != "clickhouse" {
		t.Fatalf("unexpected backend: %s", cfg.Backend.Type)
	}
	if len(cfg.Analysis.Symbols) != 2 {
		t.Fatalf("unexpected symbols: %v", cfg.Analysis.Symbols)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.MinIndicators != 8 {
		t.Fatalf("expected default min_indicators 8, got %d", cfg.Analysis.MinIndicators)
	}
	if cfg.Taapi.MinInterval != 18*time.Second {
		t.Fatalf("expected default taapi spacing, got %v", cfg.Taapi.MinInterval)
	}
	if cfg.Taapi.RetryMax != 5 {
		t.Fatalf("expected default retry budget 5, got %d", cfg.Taapi.RetryMax)
	}
	if cfg.Binance.WebSocketURL == "" {
		t.Fatalf("expected default binance url")
	}
}

func TestLoadMissingSymbols(t *testing.T) {
	body := strings.Replace(validYAML, "symbols: [BTC, ETH]", "symbols: []", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("empty symbols must fail validation")
	}
}

func TestLoadBadBackend(t *testing.T) {
	body := strings.Replace(validYAML, "type: clickhouse", "type: postgres", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("unknown backend must fail validation")
	}
}

func TestLoadBadSource(t *testing.T) {
	body := strings.Replace(validYAML, "source: local", "source: csv", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("unknown source must fail validation")
	}
}

func TestLoadTaapiRequiresKey(t *testing.T) {
	body := strings.Replace(validYAML, "source: local", "source: taapi", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("taapi source without api key must fail validation")
	}
}

func TestLoadBadInterval(t *testing.T) {
	body := strings.Replace(validYAML, "interval: 1h", "interval: 5m", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("unsupported interval must fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "SOL,DOGE")
	t.Setenv("INDICATOR_SOURCE", "taapi")
	t.Setenv("TAAPI_API_KEY", "secret")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Analysis.Symbols) != 2 || cfg.Analysis.Symbols[0] != "SOL" {
		t.Fatalf("symbols override not applied: %v", cfg.Analysis.Symbols)
	}
	if cfg.Analysis.Source != "taapi" || cfg.Taapi.APIKey != "secret" {
		t.Fatalf("source override not applied")
	}
}
