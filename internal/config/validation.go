package config

import (
	"net/url"
	"strings"

	foundationerrors "git.home.luguber.info/inful/docpage/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateServer,
		c.validateSource,
		c.validateGitHub,
		c.validateRetry,
		c.validateMetrics,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(message, field string, value any) error {
	return foundationerrors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return invalid("server address is required", "server.addr", c.Server.Addr)
	}
	if c.Server.ReadTimeout < 0 {
		return invalid("read timeout cannot be negative", "server.read_timeout", c.Server.ReadTimeout.String())
	}
	if c.Server.WriteTimeout < 0 {
		return invalid("write timeout cannot be negative", "server.write_timeout", c.Server.WriteTimeout.String())
	}
	return nil
}

func (c *Config) validateSource() error {
	if _, err := sourceTypes.Parse(string(c.Source.Type)); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid source type").
			WithContext("field", "source.type").
			Fatal().
			Build()
	}
	switch c.Source.Type {
	case SourceGitHub:
		return nil
	case SourceGit, SourceLocal:
		if strings.TrimSpace(c.Source.Root) == "" {
			return invalid("source root is required for git and local sources", "source.root", c.Source.Root)
		}
	}
	return nil
}

func (c *Config) validateGitHub() error {
	if c.Source.Type != SourceGitHub {
		return nil
	}
	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("github api url must be absolute", "github.api_url", c.GitHub.APIURL)
	}
	if c.GitHub.Timeout < 0 {
		return invalid("github timeout cannot be negative", "github.timeout", c.GitHub.Timeout.String())
	}
	return nil
}

func (c *Config) validateRetry() error {
	if _, err := retryModes.Parse(string(c.Retry.Mode)); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid retry mode").
			WithContext("field", "retry.mode").
			Fatal().
			Build()
	}
	if c.Retry.Initial <= 0 {
		return invalid("retry initial delay must be positive", "retry.initial", c.Retry.Initial.String())
	}
	if c.Retry.Max < c.Retry.Initial {
		return invalid("retry max delay must be >= initial delay", "retry.max", c.Retry.Max.String())
	}
	if c.Retry.MaxRetries < 0 {
		return invalid("max retries cannot be negative", "retry.max_retries", c.Retry.MaxRetries)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics path must start with /", "metrics.path", c.Metrics.Path)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logLevelNormalizer.Parse(string(c.Logging.Level)); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid logging level").
			WithContext("field", "logging.level").
			Fatal().
			Build()
	}
	if _, err := logFormatNormalizer.Parse(string(c.Logging.Format)); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid logging format").
			WithContext("field", "logging.format").
			Fatal().
			Build()
	}
	return nil
}
