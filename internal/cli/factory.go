package cli

import (
	"fmt"
	"log/slog"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/pkg/adapters/redis"
	"github.com/espalier-dev/espalier/pkg/config"
)

// RunOptions contains the shared configuration of the CLI commands.
type RunOptions struct {
	SettingsPath string
	Debug        bool
	DryRun       bool
}

// NewPipeline loads the settings file and assembles a pipeline with
// standard CLI conventions: stderr logging, and run history in Redis when
// ESPALIER_REDIS_ADDR points at a server, in memory otherwise.
func NewPipeline(opts RunOptions) (*espalier.Pipeline, *config.Settings, *slog.Logger, error) {
	set, err := config.Load(opts.SettingsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := createLogger(opts.Debug || set.Debug)

	pipeOpts := []espalier.Option{
		espalier.WithLogger(logger),
		espalier.WithDryRun(opts.DryRun),
	}
	if set.RedisAddr != "" {
		logger.Debug("recording runs in redis", "addr", set.RedisAddr)
		pipeOpts = append(pipeOpts, espalier.WithRecorder(redis.New(set.RedisAddr, "", 0)))
	}

	pipe, err := espalier.New(set, pipeOpts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error initializing pipeline: %w", err)
	}
	return pipe, set, logger, nil
}
