package service

import (
	"context"
	"fmt"

	"github.com/okian/handicap/internal/adapters/repository"
	"github.com/okian/handicap/internal/config"
	"github.com/okian/handicap/internal/domain/fixtures"
	"github.com/okian/handicap/pkg/logger"
)

// NewStore builds the document store described by cfg: the local file
// alone, or the S3 object with the file as fallback.
func NewStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.DocumentStore, error) {
	if log == nil {
		log = logger.NewNop()
	}
	file := repository.NewFileStore(cfg.DataFile, repository.WithLogger(log.Named("file")))
	if !cfg.RemoteEnabled() {
		return file, nil
	}
	remote, err := repository.NewS3Store(ctx, repository.S3Config{
		Bucket:          cfg.S3Bucket,
		Key:             cfg.S3Key,
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	}, repository.WithLogger(log.Named("s3")))
	if err != nil {
		return nil, err
	}
	if cfg.DataFile == "" {
		return remote, nil
	}
	return repository.NewFallbackStore(remote, file, repository.WithLogger(log.Named("store"))), nil
}

// NewFixtures loads the fixture file named by cfg or generates a round robin
// over the configured teams.
func NewFixtures(cfg *config.Config) (*fixtures.Table, error) {
	if cfg.FixturesFile != "" {
		return fixtures.LoadFile(cfg.FixturesFile)
	}
	start, err := cfg.SeasonStartDate()
	if err != nil {
		return nil, err
	}
	return fixtures.Generate(cfg.Teams, start, cfg.SeasonWeeks)
}

// FromConfig wires a Service from process configuration.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NewNop()
	}
	store, err := NewStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("document store: %w", err)
	}
	table, err := NewFixtures(cfg)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return New(
		WithStore(store),
		WithFixtures(table),
		WithTeams(cfg.Teams),
		WithMaxGames(cfg.MaxGames),
		WithAnnouncementTTL(cfg.AnnouncementTTL()),
		WithLogger(log.Named("service")),
	), nil
}
