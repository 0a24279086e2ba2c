package commands

import (
	"sync"

	"github.com/chrisconley/qlabel/internal"
	"github.com/chrisconley/qlabel/internal/config"
	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/cockroachdb/errors"
)

// Env carries the loaded configuration to subcommands. Config is filled by
// the root command before any subcommand runs.
type Env struct {
	Config *config.Config

	once     sync.Once
	registry *internal.Registry
	err      error
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		e.Config = &config.Config{Units: config.UnitsConfig{Policy: "strict"}, Log: config.LogConfig{Level: "info"}}
	}
	return e.Config
}

// Registry loads the configured quantity table once.
func (e *Env) Registry() (*internal.Registry, error) {
	e.once.Do(func() {
		path := e.config().Registry.Path
		if path == "" {
			e.registry, e.err = internal.DefaultRegistry()
			return
		}
		e.registry, e.err = internal.LoadRegistry(path, internal.WithLogger(logger.Named("registry")))
	})
	return e.registry, e.err
}

func (e *Env) Codec() (*internal.LabelCodec, error) {
	registry, err := e.Registry()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load quantity registry")
	}
	return internal.NewLabelCodec(registry, internal.WithLogger(logger.Named("codec"))), nil
}

func (e *Env) UnitPolicy() (internal.UnitPolicy, error) {
	return e.config().UnitPolicy()
}
