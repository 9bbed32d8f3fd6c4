package recipe

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// OptionName names a declared recipe option.
type OptionName string

// Options declared by the clickhouse recipe.
const (
	Shared             OptionName = "shared"
	FPIC               OptionName = "fPIC"
	BuildBench         OptionName = "build_bench"
	BuildTests         OptionName = "build_tests"
	WithOpenSSL        OptionName = "with_openssl"
	WithSystemLZ4      OptionName = "with_system_lz4"
	WithSystemCityhash OptionName = "with_system_cityhash"
	WithSystemAbseil   OptionName = "with_system_abseil"
)

// Canonical spellings of the boolean domain.
const (
	True  = "True"
	False = "False"
)

// BoolDomain is the value domain of boolean options.
var BoolDomain = []string{True, False}

var (
	// ErrUnknownOption reports a supplied option that the schema does not declare.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOptionValue reports a supplied value outside the option's domain.
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// OptionError describes a rejected option override. Kind is one of
// ErrUnknownOption or ErrInvalidOptionValue.
type OptionError struct {
	Kind   error
	Name   string
	Value  string
	Domain []string
}

func (e *OptionError) Error() string {
	if e.Kind == ErrInvalidOptionValue {
		return fmt.Sprintf("invalid value %q for option %q (allowed: %s)", e.Value, e.Name, strings.Join(e.Domain, ", "))
	}
	return fmt.Sprintf("unknown option %q", e.Name)
}

func (e *OptionError) Unwrap() error { return e.Kind }

// Decl declares one option: its value domain and default.
type Decl struct {
	Name    OptionName
	Domain  []string
	Default string
}

// IsBool reports whether d has the boolean domain.
func (d Decl) IsBool() bool {
	return slices.Equal(d.Domain, BoolDomain)
}

func (d Decl) match(value string) (string, bool) {
	for _, v := range d.Domain {
		if strings.EqualFold(v, value) {
			return v, true
		}
	}
	return "", false
}

// Schema is an ordered set of option declarations.
type Schema struct {
	decls []Decl
	index map[OptionName]int
}

// NewSchema builds a schema from decls. It panics on duplicate names or on a
// default outside its domain; both are recipe defects.
func NewSchema(decls ...Decl) *Schema {
	s := &Schema{
		decls: slices.Clone(decls),
		index: make(map[OptionName]int, len(decls)),
	}
	for i, d := range s.decls {
		if _, dup := s.index[d.Name]; dup {
			panic(fmt.Sprintf("recipe: option %q declared twice", d.Name))
		}
		if _, ok := d.match(d.Default); !ok {
			panic(fmt.Sprintf("recipe: default %q of option %q is outside its domain", d.Default, d.Name))
		}
		s.index[d.Name] = i
	}
	return s
}

// Decls returns the declarations in declaration order.
func (s *Schema) Decls() []Decl {
	return slices.Clone(s.decls)
}

// Lookup returns the declaration of name.
func (s *Schema) Lookup(name OptionName) (Decl, bool) {
	i, ok := s.index[name]
	if !ok {
		return Decl{}, false
	}
	return s.decls[i], true
}

// Canonical returns the declared spelling of name, matched
// case-insensitively. Configuration layers that fold keys to lower case use
// it before Resolve.
func (s *Schema) Canonical(name string) (OptionName, bool) {
	if _, ok := s.index[OptionName(name)]; ok {
		return OptionName(name), true
	}
	for _, d := range s.decls {
		if strings.EqualFold(string(d.Name), name) {
			return d.Name, true
		}
	}
	return "", false
}

// DefaultSchema is the option schema of the clickhouse recipe.
var DefaultSchema = NewSchema(
	Decl{Name: Shared, Domain: BoolDomain, Default: False},
	Decl{Name: FPIC, Domain: BoolDomain, Default: True},
	Decl{Name: BuildBench, Domain: BoolDomain, Default: False},
	Decl{Name: BuildTests, Domain: BoolDomain, Default: False},
	Decl{Name: WithOpenSSL, Domain: BoolDomain, Default: False},
	Decl{Name: WithSystemLZ4, Domain: BoolDomain, Default: False},
	Decl{Name: WithSystemCityhash, Domain: BoolDomain, Default: False},
	Decl{Name: WithSystemAbseil, Domain: BoolDomain, Default: False},
)

// Options holds the resolved value of every option in a schema.
// It is immutable once returned by Resolve.
type Options struct {
	schema *Schema
	values []string
}

// Resolve merges supplied over the schema defaults. Every supplied key must be
// declared and every value must lie in its domain; otherwise Resolve returns
// an *OptionError and no Options. Keys are checked in sorted order.
func Resolve(schema *Schema, supplied map[string]string) (Options, error) {
	values := make([]string, len(schema.decls))
	for i, d := range schema.decls {
		values[i] = d.Default
	}

	keys := make([]string, 0, len(supplied))
	for k := range supplied {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		i, ok := schema.index[OptionName(k)]
		if !ok {
			return Options{}, &OptionError{Kind: ErrUnknownOption, Name: k, Value: supplied[k]}
		}
		d := schema.decls[i]
		v, ok := d.match(strings.TrimSpace(supplied[k]))
		if !ok {
			return Options{}, &OptionError{Kind: ErrInvalidOptionValue, Name: k, Value: supplied[k], Domain: slices.Clone(d.Domain)}
		}
		values[i] = v
	}
	return Options{schema: schema, values: values}, nil
}

// Schema returns the schema o was resolved against.
func (o Options) Schema() *Schema { return o.schema }

// Value returns the resolved value of name. Asking for an undeclared option
// is a programming error and panics.
func (o Options) Value(name OptionName) string {
	if o.schema == nil {
		panic("recipe: options used before Resolve")
	}
	i, ok := o.schema.index[name]
	if !ok {
		panic(fmt.Sprintf("recipe: option %q is not declared", name))
	}
	return o.values[i]
}

// Bool returns the value of a boolean option.
func (o Options) Bool(name OptionName) bool {
	return o.Value(name) == True
}

// Map returns a copy of the resolved values keyed by option name.
func (o Options) Map() map[string]string {
	m := make(map[string]string, len(o.values))
	if o.schema == nil {
		return m
	}
	for i, d := range o.schema.decls {
		m[string(d.Name)] = o.values[i]
	}
	return m
}

// String renders the options as "name=value" pairs in declaration order.
func (o Options) String() string {
	if o.schema == nil {
		return ""
	}
	parts := make([]string, len(o.values))
	for i, d := range o.schema.decls {
		parts[i] = string(d.Name) + "=" + o.values[i]
	}
	return strings.Join(parts, ",")
}
