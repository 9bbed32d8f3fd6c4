package recipe

import (
	"fmt"
	"slices"
	"strings"

	"github.com/woorton/clickhouse-cpp/mod/module"
)

// Scope tells whether a requirement is linked into the package (host) or is
// only needed while building it. It is reported to consumers; the build tool
// locates requirements of both scopes the same way.
type Scope string

const (
	ScopeHost  Scope = "host"
	ScopeBuild Scope = "build"
)

// Flag is a boolean trigger evaluated by the requirement rules. Option flags
// are named after their option; mode flags carry the "mode." prefix.
type Flag string

// Mode flags derived from the resolved options.
const (
	ModeBench Flag = "mode.bench"
	ModeTests Flag = "mode.tests"
)

// OptionFlag returns the flag that is set when the boolean option name is true.
func OptionFlag(name OptionName) Flag { return Flag(name) }

func (f Flag) isMode() bool { return strings.HasPrefix(string(f), "mode.") }

// Mode describes what an invocation produces beyond the library itself.
type Mode struct {
	Tests bool // test artifacts are built and the Test step runs
	Bench bool // benchmark artifacts are built
}

// ModeOf derives the invocation mode from resolved options.
func ModeOf(opts Options) Mode {
	return Mode{
		Tests: opts.Bool(BuildTests),
		Bench: opts.Bool(BuildBench),
	}
}

func (m Mode) flag(f Flag) bool {
	switch f {
	case ModeBench:
		return m.Bench
	case ModeTests:
		return m.Tests
	}
	panic(fmt.Sprintf("recipe: unknown mode flag %q", f))
}

// Rule adds Require to the requirement set when When is set.
type Rule struct {
	When    Flag
	Require module.Version
	Scope   Scope
}

// Rules is the requirement table of the clickhouse recipe.
var Rules = []Rule{
	{When: OptionFlag(WithSystemLZ4), Require: module.Version{Path: "lz4", Version: "1.9.3"}, Scope: ScopeHost},
	{When: OptionFlag(WithSystemAbseil), Require: module.Version{Path: "abseil", Version: "20211102.0"}, Scope: ScopeHost},
	{When: OptionFlag(WithSystemCityhash), Require: module.Version{Path: "cityhash", Version: "cci.20130801"}, Scope: ScopeHost},
	{When: OptionFlag(WithOpenSSL), Require: module.Version{Path: "openssl", Version: "1.1.1l"}, Scope: ScopeHost},
	{When: ModeBench, Require: module.Version{Path: "benchmark", Version: "1.6.0"}, Scope: ScopeBuild},
}

// Requirement is a pinned dependency together with its scope.
type Requirement struct {
	module.Version `yaml:",inline"`
	Scope          Scope `json:"scope" yaml:"scope"`
}

// Requirements is a set of requirements with unique paths, kept sorted by
// path so that equal sets compare equal element-wise.
type Requirements []Requirement

// ResolveRequirements evaluates Rules against opts.
func ResolveRequirements(opts Options) Requirements {
	return resolveWith(Rules, opts)
}

func resolveWith(rules []Rule, opts Options) Requirements {
	mode := ModeOf(opts)
	var reqs Requirements
	for _, r := range rules {
		var on bool
		if r.When.isMode() {
			on = mode.flag(r.When)
		} else {
			on = opts.Bool(OptionName(r.When))
		}
		if on {
			reqs = reqs.add(Requirement{Version: r.Require, Scope: r.Scope})
		}
	}
	return reqs
}

// add inserts r keeping the set sorted. Two rules pinning the same path to
// different versions is a table defect and panics.
func (rs Requirements) add(r Requirement) Requirements {
	i, found := slices.BinarySearchFunc(rs, r.Path, func(e Requirement, path string) int {
		return strings.Compare(e.Path, path)
	})
	if found {
		if rs[i] != r {
			panic(fmt.Sprintf("recipe: conflicting requirements %s and %s", rs[i].Version, r.Version))
		}
		return rs
	}
	return slices.Insert(rs, i, r)
}

// Get returns the requirement for path.
func (rs Requirements) Get(path string) (Requirement, bool) {
	for _, r := range rs {
		if r.Path == path {
			return r, true
		}
	}
	return Requirement{}, false
}

// Versions returns the pinned versions of every requirement.
func (rs Requirements) Versions() []module.Version {
	out := make([]module.Version, len(rs))
	for i, r := range rs {
		out[i] = r.Version
	}
	return out
}
