package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/woorton/clickhouse-cpp/internal/config"
	"github.com/woorton/clickhouse-cpp/internal/depot"
	"github.com/woorton/clickhouse-cpp/internal/env"
	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
	"github.com/woorton/clickhouse-cpp/internal/profile"
	"github.com/woorton/clickhouse-cpp/recipe"
)

// invocation is the resolved input of a command: options, toolchain facts
// and everything derived from them.
type invocation struct {
	cfg       config.Config
	recipe    recipe.Recipe
	opts      recipe.Options
	toolchain recipe.Toolchain
	variant   recipe.Matrix
	id        string
	plan      lifecycle.Plan
	store     *depot.Store
}

// loadInvocation layers option overrides as config < profile < -o flags and
// toolchain facts as config/env < profile < explicitly set flags, with
// host defaults filling whatever is still empty.
func loadInvocation() (*invocation, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, internalError(fmt.Sprintf("failed to load config: %v", err), err)
	}
	r := recipe.ClickHouse

	supplied := cfg.OptionValues(r.Schema)
	tc := cfg.Toolchain
	if cfg.Profile != "" {
		p, err := profile.Load(cfg.Profile)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(fmt.Sprintf("profile %s not found", cfg.Profile), err)
		}
		if err != nil {
			return nil, invalidArgument(err.Error(), err)
		}
		maps.Copy(supplied, p.OptionValues())
		tc = p.Settings.Merge(tc)
	}
	flags, err := parseOptionFlags(optionFlags)
	if err != nil {
		return nil, err
	}
	maps.Copy(supplied, flags)

	opts, err := recipe.Resolve(r.Schema, supplied)
	if err != nil {
		return nil, invalidArgument(err.Error(), err)
	}
	tc = toolchainFlags(rootCmd.PersistentFlags()).Merge(tc).Merge(recipe.HostToolchain())

	variant := recipe.Variant(opts, tc)
	return &invocation{
		cfg:       cfg,
		recipe:    r,
		opts:      opts,
		toolchain: tc,
		variant:   variant,
		id:        variant.ID(),
		plan:      lifecycle.NewPlan(opts, tc),
		store:     depot.New(cfg.Workspace),
	}, nil
}

// toolchainFlags returns the toolchain facts the user set on the command
// line. Bound flags also reach viper, but there they rank below a profile.
func toolchainFlags(flags *pflag.FlagSet) recipe.Toolchain {
	var tc recipe.Toolchain
	set := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	var compiler string
	set("os", &tc.OS)
	set("arch", &tc.Arch)
	set("compiler", &compiler)
	set("compiler-version", &tc.CompilerVersion)
	set("libcxx", &tc.Libcxx)
	set("build-type", &tc.BuildType)
	tc.Compiler = recipe.Compiler(compiler)
	return tc
}

// parseOptionFlags parses repeated name=value overrides. Later flags win.
func parseOptionFlags(flags []string) (map[string]string, error) {
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, invalidArgument(fmt.Sprintf("invalid option %q: want name=value", f), nil)
		}
		out[name] = value
	}
	return out, nil
}

// sourceDir returns the configured source directory or the default fetch
// location of the recipe version.
func (inv *invocation) sourceDir() (string, error) {
	if inv.cfg.SourceDir != "" {
		return inv.cfg.SourceDir, nil
	}
	dir, err := env.SourceDir()
	if err != nil {
		return "", internalError(fmt.Sprintf("failed to get source dir: %v", err), err)
	}
	return filepath.Join(dir, inv.recipe.Name+"@"+inv.recipe.Version), nil
}
