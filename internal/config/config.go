package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults are the per-container resource bounds applied to every session.
type Defaults struct {
	CPULimit    float64 `yaml:"cpu_limit"`
	MemLimit    string  `yaml:"mem_limit"` // human size, e.g. "512m"
	PidsLimit   int     `yaml:"pids_limit"`
	NetworkMode string  `yaml:"network_mode"`
	MockDelayMs int     `yaml:"mock_delay_ms"`
}

// User is one entry of the static auth side-table.
type User struct {
	Token string `yaml:"token"`
	Admin bool   `yaml:"admin"`
}

type Config struct {
	Listen             string          `yaml:"listen"`
	MaxSessions        int             `yaml:"max_sessions"`
	IdleTimeoutSeconds int             `yaml:"idle_timeout_seconds"`
	ReapIntervalSecs   int             `yaml:"reap_interval_seconds"`
	DefaultImage       string          `yaml:"default_image"`
	AllowedImages      []string        `yaml:"allowed_images"`
	Users              map[string]User `yaml:"users"`
	Defaults           Defaults        `yaml:"defaults"`
}

func Load(yamlPath string) (*Config, error) {
	cfg := &Config{
		Listen:             "127.0.0.1:8080",
		MaxSessions:        20,
		IdleTimeoutSeconds: 900,
		ReapIntervalSecs:   60,
		DefaultImage:       "alpine:3.20",
		Defaults: Defaults{
			CPULimit:    1.0,
			MemLimit:    "512m",
			PidsLimit:   256,
			NetworkMode: "none",
			MockDelayMs: 150,
		},
	}

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", cfg.MaxSessions)
	}
	if cfg.IdleTimeoutSeconds <= 0 {
		return fmt.Errorf("idle_timeout_seconds must be positive, got %d", cfg.IdleTimeoutSeconds)
	}
	if cfg.ReapIntervalSecs <= 0 {
		return fmt.Errorf("reap_interval_seconds must be positive, got %d", cfg.ReapIntervalSecs)
	}
	if cfg.DefaultImage == "" {
		return fmt.Errorf("default_image must not be empty")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHELLBOX_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("SHELLBOX_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSessions = n
		}
	}
	if v := os.Getenv("SHELLBOX_IDLE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.IdleTimeoutSeconds = n
		}
	}
	if v := os.Getenv("SHELLBOX_REAP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReapIntervalSecs = n
		}
	}
	if v := os.Getenv("SHELLBOX_DEFAULT_IMAGE"); v != "" {
		cfg.DefaultImage = v
	}
	if v := os.Getenv("SHELLBOX_ALLOWED_IMAGES"); v != "" {
		cfg.AllowedImages = strings.Split(v, ",")
	}
	if v := os.Getenv("SHELLBOX_CPU_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Defaults.CPULimit = f
		}
	}
	if v := os.Getenv("SHELLBOX_MEM_LIMIT"); v != "" {
		cfg.Defaults.MemLimit = v
	}
	if v := os.Getenv("SHELLBOX_PIDS_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.PidsLimit = n
		}
	}
	if v := os.Getenv("SHELLBOX_NETWORK_MODE"); v != "" {
		cfg.Defaults.NetworkMode = v
	}
	if v := os.Getenv("SHELLBOX_MOCK_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.MockDelayMs = n
		}
	}
}
