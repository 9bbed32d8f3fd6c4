package recipe

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/woorton/clickhouse-cpp/mod/module"
)

func mustResolve(t *testing.T, supplied map[string]string) Options {
	t.Helper()
	opts, err := Resolve(DefaultSchema, supplied)
	if err != nil {
		t.Fatalf("Resolve(%v): %v", supplied, err)
	}
	return opts
}

func TestResolveRequirementsDefaults(t *testing.T) {
	if reqs := ResolveRequirements(mustResolve(t, nil)); len(reqs) != 0 {
		t.Errorf("default requirements = %v, want none", reqs)
	}
}

func TestEachTriggerAddsExactlyItsRequirement(t *testing.T) {
	tests := []struct {
		option OptionName
		want   Requirement
	}{
		{WithSystemLZ4, Requirement{Version: module.Version{Path: "lz4", Version: "1.9.3"}, Scope: ScopeHost}},
		{WithSystemAbseil, Requirement{Version: module.Version{Path: "abseil", Version: "20211102.0"}, Scope: ScopeHost}},
		{WithSystemCityhash, Requirement{Version: module.Version{Path: "cityhash", Version: "cci.20130801"}, Scope: ScopeHost}},
		{WithOpenSSL, Requirement{Version: module.Version{Path: "openssl", Version: "1.1.1l"}, Scope: ScopeHost}},
		{BuildBench, Requirement{Version: module.Version{Path: "benchmark", Version: "1.6.0"}, Scope: ScopeBuild}},
	}

	for _, tt := range tests {
		t.Run(string(tt.option), func(t *testing.T) {
			on := ResolveRequirements(mustResolve(t, map[string]string{string(tt.option): True}))
			if diff := cmp.Diff(Requirements{tt.want}, on); diff != "" {
				t.Errorf("requirements with %s on (-want +got):\n%s", tt.option, diff)
			}

			off := ResolveRequirements(mustResolve(t, map[string]string{string(tt.option): False}))
			if len(off) != 0 {
				t.Errorf("requirements with %s off = %v, want none", tt.option, off)
			}
		})
	}
}

func TestNonTriggerOptionsAddNothing(t *testing.T) {
	for _, name := range []OptionName{Shared, FPIC, BuildTests} {
		for _, v := range BoolDomain {
			reqs := ResolveRequirements(mustResolve(t, map[string]string{string(name): v}))
			if len(reqs) != 0 {
				t.Errorf("%s=%s: requirements = %v, want none", name, v, reqs)
			}
		}
	}
}

func TestResolveRequirementsAllOn(t *testing.T) {
	supplied := map[string]string{}
	for _, d := range DefaultSchema.Decls() {
		supplied[string(d.Name)] = True
	}
	reqs := ResolveRequirements(mustResolve(t, supplied))

	var paths []string
	for _, r := range reqs {
		paths = append(paths, r.Path)
	}
	want := []string{"abseil", "benchmark", "cityhash", "lz4", "openssl"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}

	if r, _ := reqs.Get("benchmark"); r.Scope != ScopeBuild {
		t.Errorf("benchmark scope = %q, want %q", r.Scope, ScopeBuild)
	}
	if r, _ := reqs.Get("lz4"); r.Scope != ScopeHost {
		t.Errorf("lz4 scope = %q, want %q", r.Scope, ScopeHost)
	}
	if got := reqs.Versions(); len(got) != 5 {
		t.Errorf("Versions() = %v, want 5 entries", got)
	}
	if r, ok := reqs.Get("openssl"); !ok || r.Version.Version != "1.1.1l" {
		t.Errorf("Get(openssl) = %v, %v", r, ok)
	}
	if _, ok := reqs.Get("zstd"); ok {
		t.Error("Get(zstd) should not be found")
	}
}

func TestResolveRequirementsDeterministic(t *testing.T) {
	supplied := map[string]string{"with_openssl": "True", "with_system_lz4": "True", "build_bench": "True"}
	first := ResolveRequirements(mustResolve(t, supplied))
	for range 20 {
		if diff := cmp.Diff(first, ResolveRequirements(mustResolve(t, supplied))); diff != "" {
			t.Fatalf("requirements differ between runs (-first +got):\n%s", diff)
		}
	}
}

func TestResolveRequirementsIgnoresRuleOrder(t *testing.T) {
	opts := mustResolve(t, map[string]string{"with_openssl": "True", "with_system_abseil": "True"})
	reversed := make([]Rule, len(Rules))
	for i, r := range Rules {
		reversed[len(Rules)-1-i] = r
	}
	if diff := cmp.Diff(resolveWith(Rules, opts), resolveWith(reversed, opts)); diff != "" {
		t.Errorf("rule order changed the result (-want +got):\n%s", diff)
	}
}

func TestRulesReferenceDeclaredOptions(t *testing.T) {
	for _, r := range Rules {
		if r.When.isMode() {
			continue
		}
		d, ok := DefaultSchema.Lookup(OptionName(r.When))
		if !ok {
			t.Errorf("rule for %s is triggered by undeclared option %q", r.Require, r.When)
			continue
		}
		if !d.IsBool() {
			t.Errorf("rule for %s is triggered by non-boolean option %q", r.Require, r.When)
		}
	}
}

func TestConflictingRulesPanic(t *testing.T) {
	rules := []Rule{
		{When: OptionFlag(WithOpenSSL), Require: module.Version{Path: "openssl", Version: "1.1.1l"}},
		{When: OptionFlag(Shared), Require: module.Version{Path: "openssl", Version: "3.0.0"}},
	}
	opts := mustResolve(t, map[string]string{"with_openssl": "True", "shared": "True"})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for conflicting requirements")
		}
	}()
	resolveWith(rules, opts)
}

func TestDuplicateRuleSameVersionIsDeduped(t *testing.T) {
	rules := []Rule{
		{When: OptionFlag(WithOpenSSL), Require: module.Version{Path: "openssl", Version: "1.1.1l"}, Scope: ScopeHost},
		{When: OptionFlag(Shared), Require: module.Version{Path: "openssl", Version: "1.1.1l"}, Scope: ScopeHost},
	}
	opts := mustResolve(t, map[string]string{"with_openssl": "True", "shared": "True"})
	if reqs := resolveWith(rules, opts); len(reqs) != 1 {
		t.Errorf("requirements = %v, want one openssl entry", reqs)
	}
}

func TestModeOf(t *testing.T) {
	m := ModeOf(mustResolve(t, map[string]string{"build_tests": "True"}))
	if !m.Tests || m.Bench {
		t.Errorf("ModeOf(build_tests) = %+v", m)
	}
	m = ModeOf(mustResolve(t, map[string]string{"build_bench": "True"}))
	if m.Tests || !m.Bench {
		t.Errorf("ModeOf(build_bench) = %+v", m)
	}
}
