package recipe

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Definition keys understood by the clickhouse-cpp CMake project.
const (
	DefBuildBenchmark     = "BUILD_BENCHMARK"
	DefBuildTests         = "BUILD_TESTS"
	DefWithOpenSSL        = "WITH_OPENSSL"
	DefWithSystemAbseil   = "WITH_SYSTEM_ABSEIL"
	DefWithSystemLZ4      = "WITH_SYSTEM_LZ4"
	DefWithSystemCityhash = "WITH_SYSTEM_CITYHASH"
	DefSharedLibs         = "BUILD_SHARED_LIBS"
	DefPIC                = "CMAKE_POSITION_INDEPENDENT_CODE"
	DefCXXFlags           = "CMAKE_CXX_FLAGS"
)

// Capabilities maps each capability option to the definition it enables.
// A capability is emitted as "ON" when set and omitted otherwise.
var Capabilities = []struct {
	Option OptionName
	Key    string
}{
	{BuildBench, DefBuildBenchmark},
	{BuildTests, DefBuildTests},
	{WithOpenSSL, DefWithOpenSSL},
	{WithSystemAbseil, DefWithSystemAbseil},
	{WithSystemLZ4, DefWithSystemLZ4},
	{WithSystemCityhash, DefWithSystemCityhash},
}

// linkage options are always emitted, as ON or OFF.
var linkage = []struct {
	Option OptionName
	Key    string
}{
	{Shared, DefSharedLibs},
	{FPIC, DefPIC},
}

// Definitions is the key/value mapping handed to the build tool.
type Definitions struct {
	m map[string]string
}

// NewDefinitions returns definitions holding a copy of m.
func NewDefinitions(m map[string]string) Definitions {
	return Definitions{m: maps.Clone(m)}
}

func (d *Definitions) set(key, value string) {
	if d.m == nil {
		d.m = make(map[string]string)
	}
	if prev, ok := d.m[key]; ok {
		panic(fmt.Sprintf("recipe: definition %s=%s collides with %s=%s", key, value, key, prev))
	}
	d.m[key] = value
}

// Get returns the value of key.
func (d Definitions) Get(key string) (string, bool) {
	v, ok := d.m[key]
	return v, ok
}

// Len returns the number of definitions.
func (d Definitions) Len() int { return len(d.m) }

// Keys returns the definition keys in sorted order.
func (d Definitions) Keys() []string {
	return slices.Sorted(maps.Keys(d.m))
}

// Map returns a copy of the definitions.
func (d Definitions) Map() map[string]string {
	out := maps.Clone(d.m)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

// String renders the definitions as sorted KEY=VALUE lines.
func (d Definitions) String() string {
	var b strings.Builder
	for _, k := range d.Keys() {
		fmt.Fprintf(&b, "%s=%s\n", k, d.m[k])
	}
	return b.String()
}

// Translate maps resolved options and toolchain facts to build definitions.
func Translate(opts Options, tc Toolchain) Definitions {
	var d Definitions
	for _, c := range Capabilities {
		if opts.Bool(c.Option) {
			d.set(c.Key, "ON")
		}
	}
	for _, l := range linkage {
		d.set(l.Key, onOff(opts.Bool(l.Option)))
	}
	if tc.PinsLibcxx() {
		d.set(DefCXXFlags, "-stdlib="+LibCxx)
	}
	return d
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
