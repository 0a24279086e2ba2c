package config

import "github.com/chrisconley/qlabel/internal"

// Config is the qlabel configuration.
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Units    UnitsConfig    `mapstructure:"units"`
	Log      LogConfig      `mapstructure:"log"`
}

// RegistryConfig selects the quantity table
type RegistryConfig struct {
	Path string `mapstructure:"path"` // empty = embedded table
}

type UnitsConfig struct {
	Policy string `mapstructure:"policy"` // strict | lenient
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// UnitPolicy returns the configured unit policy.
func (c *Config) UnitPolicy() (internal.UnitPolicy, error) {
	return internal.NewUnitPolicy(c.Units.Policy)
}
