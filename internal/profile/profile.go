// Package profile reads toolchain profiles. A profile is a TOML file with a
// [settings] table of toolchain facts and an [options] table of option
// overrides:
//
//	[settings]
//	os = "linux"
//	arch = "x86_64"
//	compiler = "clang"
//	libcxx = "libc++"
//	build_type = "Release"
//
//	[options]
//	shared = true
//	with_openssl = "True"
package profile

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/woorton/clickhouse-cpp/recipe"
)

// Profile is a parsed toolchain profile.
type Profile struct {
	Settings recipe.Toolchain `toml:"settings"`
	Options  map[string]any   `toml:"options"`
}

// Load reads the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}

// Parse parses profile data. Unknown settings are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// OptionValues returns the option overrides as strings.
func (p *Profile) OptionValues() map[string]string {
	return OptionStrings(p.Options)
}

// OptionStrings converts loosely typed option values, as decoded from TOML or
// YAML, to their string form. Booleans use the recipe spelling.
func OptionStrings(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = OptionString(v)
	}
	return out
}

// OptionString formats one option value.
func OptionString(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return recipe.True
		}
		return recipe.False
	case string:
		return v
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
