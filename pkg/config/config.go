package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	CoverAllowedExtensions    []string      `koanf:"cover_allowed_extensions"`
	CoverMaxSizeBytes         int64         `koanf:"cover_max_size_bytes"`
	CoverUploadDir            string        `koanf:"cover_upload_dir"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	Environment               string        `koanf:"environment"`
	Hostname                  string        `koanf:"-"`
	JWTSecret                 string        `koanf:"jwt_secret"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
}

const (
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"
	envPrefix      = "SHELFDESK_"
)

// New builds the configuration by layering per-environment defaults, an
// optional YAML config file (CONFIG_FILE), and SHELFDESK_* environment
// variables, in that order of increasing precedence.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		CoverAllowedExtensions:    []string{".jpg", ".jpeg", ".png", ".webp", ".gif"},
		CoverMaxSizeBytes:         5 * 1024 * 1024,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        3,
		Hostname:                  hostname,
		ServerPort:                4278,
	}

	environment := os.Getenv(environmentENV)
	if environment == "" {
		environment = "development"
	}
	cfg.Environment = environment

	switch environment {
	case "development":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret must be set in production")
	}

	return cfg, nil
}
