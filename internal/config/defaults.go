package config

import "github.com/spf13/viper"

// EnvPrefix is prepended to environment overrides, e.g. QLABEL_UNITS_POLICY.
const EnvPrefix = "QLABEL"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry.path", "") // embedded table
	v.SetDefault("units.policy", "strict")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}
