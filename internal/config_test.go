package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BIZCHAT_API_URL", "")
	t.Setenv("BIZCHAT_STORAGE", "")

	cfg, err := LoadConfig("", "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.StoragePath == "" {
		t.Error("StoragePath should default to a home-relative path")
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BIZCHAT_API_URL", "")
	t.Setenv("BIZCHAT_STORAGE", "")

	dir := filepath.Join(home, ".bizchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	content := "api_url: http://from-file:9002\ntimeout_seconds: 15\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig("", "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.APIURL != "http://from-file:9002" {
		t.Errorf("APIURL = %q, want value from config file", cfg.APIURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
}

func TestLoadConfig_EnvOverridesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BIZCHAT_API_URL", "http://backend.example:9000")
	t.Setenv("BIZCHAT_STORAGE", "/tmp/custom.db")

	cfg, err := LoadConfig("", "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.APIURL != "http://backend.example:9000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.StoragePath != "/tmp/custom.db" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BIZCHAT_API_URL", "http://from-env:9000")

	cfg, err := LoadConfig("http://from-flag:9001", "/tmp/flag.db")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.APIURL != "http://from-flag:9001" {
		t.Errorf("APIURL = %q, flag must win over env", cfg.APIURL)
	}
	if cfg.StoragePath != "/tmp/flag.db" {
		t.Errorf("StoragePath = %q, flag must win over env", cfg.StoragePath)
	}
}
