// Package versions provides functionality for parsing and writing the lock
// file that records resolved requirements per package variant.
package versions

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/woorton/clickhouse-cpp/mod/module"
)

// FileName is the default lock file name.
const FileName = "chpkg.lock.json"

// Versions represents a package lock file.
type Versions struct {
	Path         string                      `json:"path"` // Package name
	Dependencies map[string][]module.Version `json:"deps"` // Map of variant key to its pinned requirements
}

// Key returns the lock key for a package version built as variant.
func Key(version, variant string) string {
	return version + "|" + variant
}

// Set records reqs under key, replacing any previous entry. The stored list
// is sorted by path so the written file does not depend on input order.
func (v *Versions) Set(key string, reqs []module.Version) {
	if v.Dependencies == nil {
		v.Dependencies = make(map[string][]module.Version)
	}
	sorted := slices.Clone(reqs)
	if sorted == nil {
		sorted = []module.Version{}
	}
	slices.SortFunc(sorted, func(a, b module.Version) int {
		return strings.Compare(a.Path, b.Path)
	})
	v.Dependencies[key] = sorted
}

// Parse reads and parses a lock file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
func Parse(file string, data []byte) (*Versions, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var v Versions

	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Write marshals v as indented JSON into file.
func (v *Versions) Write(file string) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(file, append(data, '\n'), 0o644)
}
