// Package module defines the module.Version type along with support code.
package module

import "path/filepath"

// A Version (for clients, a module.Version) represents a specific pinned
// version of a package identified by its path.
type Version struct {
	Path    string `json:"path" yaml:"path"`       // Package name, e.g. "openssl"
	Version string `json:"version" yaml:"version"` // Exact version string, e.g. "1.1.1l"
}

// String returns the reference form "path/version".
func (v Version) String() string {
	return v.Path + "/" + v.Version
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
