package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the daemon needs at startup. Values merge in
// order: defaults, then the YAML file (if any), then YTQ_* environment
// overrides.
type Config struct {
	ListenAddr  string   `yaml:"listen_addr"`
	StateDir    string   `yaml:"state_dir"`
	DownloadDir string   `yaml:"download_dir"`
	Program     string   `yaml:"program"`
	BaseArgs    []string `yaml:"base_args"`
	MaxFailures int      `yaml:"max_failures"`
	RateLimit   string   `yaml:"rate_limit"`
	Proxy       string   `yaml:"proxy"`
	ProxyHosts  []string `yaml:"proxy_hosts"`
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		ListenAddr:  "127.0.0.1:8632",
		StateDir:    filepath.Join(home, ".local", "state", "ytq"),
		DownloadDir: filepath.Join(home, "Downloads"),
		Program:     "yt-dlp",
		BaseArgs:    []string{"--newline"},
		MaxFailures: 8,
		RateLimit:   "2M",
	}
}

// Load reads path (required if non-empty) on top of defaults and applies
// environment overrides last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := mergeFile(&cfg, path, true); err != nil {
			return Config{}, err
		}
	} else if user := userConfigPath(); user != "" {
		if err := mergeFile(&cfg, user, false); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ytq", "config.yaml")
}

func mergeFile(cfg *Config, path string, required bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc Config
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.StateDir != "" {
		cfg.StateDir = fc.StateDir
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.Program != "" {
		cfg.Program = fc.Program
	}
	if fc.BaseArgs != nil {
		cfg.BaseArgs = fc.BaseArgs
	}
	if fc.MaxFailures != 0 {
		cfg.MaxFailures = fc.MaxFailures
	}
	if fc.RateLimit != "" {
		cfg.RateLimit = fc.RateLimit
	}
	if fc.Proxy != "" {
		cfg.Proxy = fc.Proxy
	}
	if fc.ProxyHosts != nil {
		cfg.ProxyHosts = fc.ProxyHosts
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("YTQ_HTTP_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("YTQ_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := getenv("YTQ_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := getenv("YTQ_PROGRAM"); v != "" {
		cfg.Program = v
	}
	if v := getenv("YTQ_MAX_FAILURES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid YTQ_MAX_FAILURES %q", v)
		}
		cfg.MaxFailures = parsed
	}
	if v := getenv("YTQ_RATE_LIMIT"); v != "" {
		cfg.RateLimit = v
	}
	if v := getenv("YTQ_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := getenv("YTQ_PROXY_HOSTS"); v != "" {
		hosts := strings.Split(v, ",")
		cfg.ProxyHosts = cfg.ProxyHosts[:0]
		for _, h := range hosts {
			if h = strings.TrimSpace(h); h != "" {
				cfg.ProxyHosts = append(cfg.ProxyHosts, h)
			}
		}
	}
	return nil
}

func (c Config) validate() error {
	if c.Program == "" {
		return errors.New("program must not be empty")
	}
	if c.MaxFailures < 1 {
		return fmt.Errorf("max_failures must be positive, got %d", c.MaxFailures)
	}
	if c.DownloadDir == "" {
		return errors.New("download_dir must not be empty")
	}
	return nil
}
