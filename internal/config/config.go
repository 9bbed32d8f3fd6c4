// Package config loads chpkg settings from viper.
package config

import (
	"github.com/spf13/viper"

	"github.com/woorton/clickhouse-cpp/internal/env"
	"github.com/woorton/clickhouse-cpp/internal/profile"
	"github.com/woorton/clickhouse-cpp/recipe"
)

// Config holds the runtime configuration of a chpkg invocation.
// Values are populated from .chpkg.yaml, CHPKG_* env vars, and CLI flags.
type Config struct {
	Workspace     string           `mapstructure:"workspace"`
	SourceDir     string           `mapstructure:"source_dir"`
	Generator     string           `mapstructure:"generator"`
	ToolchainFile string           `mapstructure:"toolchain_file"`
	LogLevel      string           `mapstructure:"log_level"`
	Profile       string           `mapstructure:"profile"`
	Toolchain     recipe.Toolchain `mapstructure:"toolchain"`
	Options       map[string]any   `mapstructure:"options"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	workDir, _ := env.WorkDir()

	viper.SetDefault("workspace", workDir)
	viper.SetDefault("source_dir", "")
	viper.SetDefault("generator", "")
	viper.SetDefault("toolchain_file", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("profile", "")
	viper.SetDefault("toolchain.os", "")
	viper.SetDefault("toolchain.arch", "")
	viper.SetDefault("toolchain.compiler", "")
	viper.SetDefault("toolchain.compiler_version", "")
	viper.SetDefault("toolchain.libcxx", "")
	viper.SetDefault("toolchain.build_type", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OptionValues returns the configured option overrides. Viper folds keys to
// lower case, so declared names are restored from schema; unknown names are
// kept for Resolve to reject.
func (c Config) OptionValues(schema *recipe.Schema) map[string]string {
	out := make(map[string]string, len(c.Options))
	for k, v := range profile.OptionStrings(c.Options) {
		if name, ok := schema.Canonical(k); ok {
			k = string(name)
		}
		out[k] = v
	}
	return out
}
