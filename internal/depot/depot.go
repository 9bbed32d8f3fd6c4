// Package depot manages the workspace directory holding installed
// dependency packages and the build outputs of this package.
//
// Workspace layout:
//
//	root/
//	  <escaped>@<version>/            # installed dependency package
//	    include/
//	    lib/
//	  <escaped>/                      # module-level dir
//	    .cache.json                   # install records: "version-variant" -> Entry
//	    build-<variant>/              # cmake build tree
//	  <escaped>@<version>-<variant>/   # install prefix of a built variant
package depot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/woorton/clickhouse-cpp/mod/module"
)

const cacheFile = ".cache.json"

// Entry is the record of one installed variant.
type Entry struct {
	Metadata  string    `json:"metadata"`
	Options   string    `json:"options,omitempty"`
	Libs      []string  `json:"libs,omitempty"`
	Dir       string    `json:"dir"`
	BuildTime time.Time `json:"build_time"`
}

type installCache struct {
	Cache map[string]*Entry `json:"cache"`
}

func cacheKey(version, variant string) string {
	return version + "-" + variant
}

// NotFoundError reports a dependency package missing from the depot.
type NotFoundError struct {
	Mod       module.Version
	Installed []string // other installed versions, oldest first
}

func (e *NotFoundError) Error() string {
	if len(e.Installed) == 0 {
		return fmt.Sprintf("package %s not found in depot", e.Mod)
	}
	return fmt.Sprintf("package %s not found in depot (installed: %s)", e.Mod, strings.Join(e.Installed, ", "))
}

// Store is a depot rooted at a workspace directory.
type Store struct {
	root string
}

// New returns the depot rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the workspace directory.
func (s *Store) Root() string { return s.root }

// PackageDir returns the directory of the installed dependency mod.
func (s *Store) PackageDir(mod module.Version) (string, error) {
	escaped, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, escaped+"@"+mod.Version), nil
}

// Locate returns the install root of mod. It fails with *NotFoundError when
// the exact version is not installed.
func (s *Store) Locate(mod module.Version) (string, error) {
	dir, err := s.PackageDir(mod)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return dir, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	installed, err := s.Installed(mod.Path)
	if err != nil {
		return "", err
	}
	return "", &NotFoundError{Mod: mod, Installed: installed}
}

// Installed returns the installed dependency versions of path in ascending
// version order. Build outputs recorded for path are not listed.
func (s *Store) Installed(path string) ([]string, error) {
	escaped, err := module.EscapePath(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	records, err := s.load(path)
	if err != nil {
		return nil, err
	}

	prefix := escaped + "@"
	var versions []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		v := strings.TrimPrefix(e.Name(), prefix)
		if _, built := records.Cache[v]; built || v == "" {
			continue
		}
		versions = append(versions, v)
	}
	slices.SortFunc(versions, compareVersions)
	return versions, nil
}

// moduleDir returns the module-level directory: root/<escaped>.
func (s *Store) moduleDir(path string) (string, error) {
	escaped, err := module.EscapePath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, escaped), nil
}

// BuildDir returns the build tree of a variant.
func (s *Store) BuildDir(path, variant string) (string, error) {
	dir, err := s.moduleDir(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "build-"+variant), nil
}

// InstallDir returns the install prefix of a variant: root/<escaped>@<version>-<variant>.
func (s *Store) InstallDir(mod module.Version, variant string) (string, error) {
	escaped, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, fmt.Sprintf("%s@%s-%s", escaped, mod.Version, variant)), nil
}

// Lookup returns the install record of a variant.
func (s *Store) Lookup(mod module.Version, variant string) (*Entry, bool, error) {
	c, err := s.load(mod.Path)
	if err != nil {
		return nil, false, err
	}
	e, ok := c.Cache[cacheKey(mod.Version, variant)]
	return e, ok, nil
}

// Record stores the install record of a variant, replacing any previous one.
func (s *Store) Record(mod module.Version, variant string, e Entry) error {
	c, err := s.load(mod.Path)
	if err != nil {
		return err
	}
	if c.Cache == nil {
		c.Cache = make(map[string]*Entry)
	}
	c.Cache[cacheKey(mod.Version, variant)] = &e
	return s.save(mod.Path, c)
}

// load reads the cache file of path. A missing file is an empty cache.
func (s *Store) load(path string) (*installCache, error) {
	dir, err := s.moduleDir(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &installCache{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c installCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("depot: parse %s: %w", filepath.Join(dir, cacheFile), err)
	}
	return &c, nil
}

func (s *Store) save(path string, c *installCache) error {
	dir, err := s.moduleDir(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}
