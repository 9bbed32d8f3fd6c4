package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Matrix describes a space of package variants. Require holds toolchain
// settings, Options holds recipe options; each key maps to its candidate
// values.
type Matrix struct {
	Require map[string][]string
	Options map[string][]string
}

// cartesian returns the product of kvs with keys sorted alphabetically.
// Require values are joined bare; option values are rendered as name=value.
func cartesian(kvs map[string][]string, named bool) []string {
	if len(kvs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	render := func(k, v string) string {
		if named {
			return k + "=" + v
		}
		return v
	}

	result := make([]string, 0, len(kvs[keys[0]]))
	for _, v := range kvs[keys[0]] {
		result = append(result, render(keys[0], v))
	}
	for _, k := range keys[1:] {
		values := kvs[k]
		next := make([]string, 0, len(result)*len(values))
		for _, prev := range result {
			for _, v := range values {
				next = append(next, prev+"-"+render(k, v))
			}
		}
		result = next
	}
	return result
}

// Combinations returns all cartesian product combinations of the matrix.
// Require combinations are joined with "-", then combined with option
// combinations using "|".
func (m *Matrix) Combinations() []string {
	requireCombos := cartesian(m.Require, false)
	optionsCombos := cartesian(m.Options, true)

	if len(requireCombos) == 0 {
		return optionsCombos
	}
	if len(optionsCombos) == 0 {
		return requireCombos
	}

	result := make([]string, 0, len(requireCombos)*len(optionsCombos))
	for _, req := range requireCombos {
		for _, opt := range optionsCombos {
			result = append(result, req+"|"+opt)
		}
	}
	return result
}

// Variant returns the single-valued matrix describing one build of the
// recipe: the non-empty toolchain settings and every resolved option.
func Variant(opts Options, tc Toolchain) Matrix {
	m := Matrix{
		Require: make(map[string][]string),
		Options: make(map[string][]string),
	}
	for k, v := range tc.settings() {
		m.Require[k] = []string{v}
	}
	for k, v := range opts.Map() {
		m.Options[k] = []string{v}
	}
	return m
}

// ID returns a file-system friendly identifier for the first combination of
// m: the require part verbatim followed by a short digest of the options.
// It is meant for single-valued matrices as returned by Variant.
func (m *Matrix) ID() string {
	requireCombos := cartesian(m.Require, false)
	optionsCombos := cartesian(m.Options, true)

	var parts []string
	if len(requireCombos) > 0 {
		parts = append(parts, sanitize(requireCombos[0]))
	}
	if len(optionsCombos) > 0 {
		sum := sha256.Sum256([]byte(optionsCombos[0]))
		parts = append(parts, hex.EncodeToString(sum[:])[:12])
	}
	return strings.Join(parts, "-")
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
