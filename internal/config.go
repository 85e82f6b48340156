package internal

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL matches the backend's local development address.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultTimeout bounds each backend request. RAG answers are slow;
	// interactive sends still need an upper bound.
	DefaultTimeout = 60 * time.Second
)

// Config carries everything the commands need to reach the backend and the
// local session database.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	StoragePath string        `yaml:"storage_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

// fileConfig is the on-disk shape of ~/.bizchat/config.yaml.
type fileConfig struct {
	APIURL      string `yaml:"api_url"`
	StoragePath string `yaml:"storage_path"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// LoadConfig resolves configuration with precedence flag > env > config file
// > default. Flag values arrive as the apiURL/storagePath arguments; empty
// means unset.
func LoadConfig(apiURL, storagePath string) (*Config, error) {
	cfg := &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}

	defaultStorage, err := DefaultStoragePath()
	if err != nil {
		return nil, err
	}
	cfg.StoragePath = defaultStorage

	if fc, ok := readConfigFile(); ok {
		if fc.APIURL != "" {
			cfg.APIURL = fc.APIURL
		}
		if fc.StoragePath != "" {
			cfg.StoragePath = fc.StoragePath
		}
		if fc.TimeoutSecs > 0 {
			cfg.Timeout = time.Duration(fc.TimeoutSecs) * time.Second
		}
	}

	if env := os.Getenv("BIZCHAT_API_URL"); env != "" {
		cfg.APIURL = env
	}
	if env := os.Getenv("BIZCHAT_STORAGE"); env != "" {
		cfg.StoragePath = env
	}

	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if storagePath != "" {
		cfg.StoragePath = storagePath
	}

	return cfg, nil
}

// DefaultStoragePath returns the default location of the local session
// database.
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &StorageError{Path: "~", Op: "open", Err: err}
	}
	return filepath.Join(home, ".bizchat", "bizchat.db"), nil
}

func readConfigFile() (*fileConfig, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, false
	}
	path := filepath.Join(home, ".bizchat", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		LogWarn("Ignoring malformed config file %s: %v", path, err)
		return nil, false
	}
	return &fc, true
}
