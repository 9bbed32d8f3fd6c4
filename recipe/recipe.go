// Package recipe declares the clickhouse-cpp package recipe: its option
// schema, the requirements each option pulls in, the build definitions it
// hands to CMake and the artifacts it publishes.
//
// The flow per invocation is one-way:
//
//	Resolve -> ResolveRequirements
//	        -> Translate (with Toolchain facts)
//
// and the results are consumed by the lifecycle package.
package recipe

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/woorton/clickhouse-cpp/mod/module"
)

// Recipe describes the packaged library.
type Recipe struct {
	Name        string
	Version     string
	URL         string
	Description string
	Settings    []string
	Schema      *Schema
}

// ClickHouse is the recipe of the ClickHouse C++ client library.
var ClickHouse = Recipe{
	Name:        "clickhouse",
	Version:     "2.1.0",
	URL:         "https://github.com/ClickHouse/clickhouse-cpp",
	Description: "ClickHouse C++ API",
	Settings:    []string{"os", "compiler", "build_type", "arch"},
	Schema:      DefaultSchema,
}

// Reference returns the package reference "name/version".
func (r Recipe) Reference() module.Version {
	return module.Version{Path: r.Name, Version: r.Version}
}

// SourceTag returns the upstream git tag of the recipe version.
func (r Recipe) SourceTag() string {
	return "v" + r.Version
}

// Validate checks the recipe metadata.
func (r Recipe) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("recipe: empty name")
	}
	if !semver.IsValid(r.SourceTag()) {
		return fmt.Errorf("recipe %s: version %q is not a semantic version", r.Name, r.Version)
	}
	if r.Schema == nil {
		return fmt.Errorf("recipe %s: no option schema", r.Name)
	}
	return nil
}

// Library artifact names published under the package identity.
const (
	LibShared = "clickhouse-cpp-lib"
	LibStatic = "clickhouse-cpp-lib-static"
)

// PackageInfo is what the package registry learns about a built variant.
type PackageInfo struct {
	Name            string   `json:"name" yaml:"name"`
	Version         string   `json:"version" yaml:"version"`
	FindPackageName string   `json:"find_package_name" yaml:"find_package_name"`
	Libs            []string `json:"libs" yaml:"libs"`
}

// Info returns the package info for a build of r with opts. Exactly one
// library artifact is published, chosen by the shared option.
func (r Recipe) Info(opts Options) PackageInfo {
	lib := LibStatic
	if opts.Bool(Shared) {
		lib = LibShared
	}
	return PackageInfo{
		Name:            r.Name,
		Version:         r.Version,
		FindPackageName: r.Name,
		Libs:            []string{lib},
	}
}
