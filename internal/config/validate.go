package config

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.UnitPolicy(); err != nil {
		return errors.Wrap(err, "units.policy must be strict or lenient")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log.level %q", c.Log.Level)
	}
	return nil
}
