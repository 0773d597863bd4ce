package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/foundation/normalization"
)

// Config is the service configuration of the docpage server and CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	GitHub  GitHubConfig  `yaml:"github"`
	Retry   RetryConfig   `yaml:"retry"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP bundle API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Gzip         bool          `yaml:"gzip"`
}

// SourceType selects where repository contents are fetched from.
type SourceType string

const (
	SourceGitHub SourceType = "github"
	SourceGit    SourceType = "git"
	SourceLocal  SourceType = "local"
)

var sourceTypes = normalization.NewEnum("source type", map[string]SourceType{
	"github": SourceGitHub,
	"git":    SourceGit,
	"local":  SourceLocal,
}, "")

// SourceConfig selects the fetcher. Root is the clone directory for the git
// source and the checkout directory for the local source.
type SourceConfig struct {
	Type SourceType `yaml:"type"`
	Root string     `yaml:"root,omitempty"`
}

// GitHubConfig configures the GitHub REST client.
type GitHubConfig struct {
	APIURL  string        `yaml:"api_url"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

const (
	DefaultAddr      = ":8080"
	DefaultAPIURL    = "https://api.github.com"
	DefaultMetrics   = "/metrics"
	DefaultTimeout   = 10 * time.Second
	DefaultServerRTO = 15 * time.Second
	DefaultServerWTO = 30 * time.Second
)

// envFiles are loaded in order; godotenv never overrides variables that are already set.
var envFiles = []string{".env", ".env.local"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultServerRTO
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultServerWTO
	}
	if c.Source.Type == "" {
		c.Source.Type = SourceGitHub
	} else if t, ok := sourceTypes.Lookup(string(c.Source.Type)); ok {
		c.Source.Type = t
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = DefaultAPIURL
	}
	if c.GitHub.Timeout == 0 {
		c.GitHub.Timeout = DefaultTimeout
	}
	if c.Retry.Mode == "" {
		c.Retry.Mode = RetryBackoffLinear
	} else if mode := NormalizeRetryBackoff(string(c.Retry.Mode)); mode != "" {
		c.Retry.Mode = mode
	}
	if c.Retry.Initial == 0 {
		c.Retry.Initial = time.Second
	}
	if c.Retry.Max == 0 {
		c.Retry.Max = 30 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetrics
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	} else if level, ok := logLevelNormalizer.Lookup(string(c.Logging.Level)); ok {
		c.Logging.Level = level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	} else if format, ok := logFormatNormalizer.Lookup(string(c.Logging.Format)); ok {
		c.Logging.Format = format
	}
}

// Load reads the configuration file at path, expanding ${VAR} references
// against the environment after loading .env files. A missing file yields the
// defaults so the CLI works without any configuration.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration content, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to load env file").
				WithContext("file", name).
				Fatal().
				Build()
		}
	}
	return nil
}

// Init writes a configuration file populated with defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return foundationerrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
