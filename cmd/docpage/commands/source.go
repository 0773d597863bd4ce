package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/docpage/internal/config"
	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/forge"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/git"
	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/preview"
)

// NewFetcher builds the fetcher selected by cfg.Source and returns it with
// its source name.
func NewFetcher(cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) (content.Fetcher, string, error) {
	switch cfg.Source.Type {
	case config.SourceGitHub:
		client := forge.NewGitHubClientFromConfig(cfg, forge.WithRecorder(recorder), forge.WithLogger(logger))
		return client, forge.SourceName, nil
	case config.SourceGit:
		return git.NewSource(cfg.Source.Root, logger), git.SourceName, nil
	case config.SourceLocal:
		src, err := preview.NewLocalSource(cfg.Source.Root)
		if err != nil {
			return nil, "", err
		}
		return src, preview.SourceName, nil
	default:
		return nil, "", errors.ConfigError("unsupported source type").
			WithContext("field", "source.type").
			WithContext("value", string(cfg.Source.Type)).
			Build()
	}
}

// NewService builds the resolution service over the configured source.
func NewService(cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) (*content.Service, string, error) {
	recorder = metrics.OrNoop(recorder)
	fetcher, name, err := NewFetcher(cfg, recorder, logger)
	if err != nil {
		return nil, "", err
	}
	svc := content.NewService(fetcher,
		content.WithRecorder(recorder),
		content.WithLogger(logger),
		content.WithSourceName(name))
	return svc, name, nil
}
