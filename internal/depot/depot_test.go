package depot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woorton/clickhouse-cpp/mod/module"
)

func install(t *testing.T, s *Store, mod module.Version) string {
	t.Helper()
	dir, err := s.PackageDir(mod)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	return dir
}

func TestLocate(t *testing.T) {
	s := New(t.TempDir())
	openssl := module.Version{Path: "openssl", Version: "1.1.1l"}
	want := install(t, s, openssl)

	got, err := s.Locate(openssl)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, filepath.Join(s.Root(), "openssl@1.1.1l"), got)
}

func TestLocateNotFoundListsInstalled(t *testing.T) {
	s := New(t.TempDir())
	install(t, s, module.Version{Path: "openssl", Version: "1.1.1t"})
	install(t, s, module.Version{Path: "openssl", Version: "1.1.1k"})
	install(t, s, module.Version{Path: "openssl", Version: "3.0.12"})
	install(t, s, module.Version{Path: "lz4", Version: "1.9.4"})

	_, err := s.Locate(module.Version{Path: "openssl", Version: "1.1.1l"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"1.1.1k", "1.1.1t", "3.0.12"}, nf.Installed)
	assert.Contains(t, err.Error(), "openssl/1.1.1l")
	assert.Contains(t, err.Error(), "1.1.1k, 1.1.1t, 3.0.12")
}

func TestLocateEmptyDepot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	_, err := s.Locate(module.Version{Path: "abseil", Version: "20211102.0"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, nf.Installed)
	assert.Equal(t, "package abseil/20211102.0 not found in depot", err.Error())
}

func TestLocateIgnoresFiles(t *testing.T) {
	s := New(t.TempDir())
	dir, err := s.PackageDir(module.Version{Path: "lz4", Version: "1.9.3"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	_, err = s.Locate(module.Version{Path: "lz4", Version: "1.9.3"})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRecordAndLookup(t *testing.T) {
	s := New(t.TempDir())
	mod := module.Version{Path: "clickhouse", Version: "2.1.0"}
	now := time.Now().Truncate(time.Second)

	_, ok, err := s.Lookup(mod, "amd64-Release-abc")
	require.NoError(t, err)
	assert.False(t, ok)

	entry := Entry{Metadata: "amd64-Release", Options: "shared=False", Libs: []string{"clickhouse-cpp-lib-static"}, Dir: "/x", BuildTime: now}
	require.NoError(t, s.Record(mod, "amd64-Release-abc", entry))
	require.NoError(t, s.Record(mod, "arm64-Debug-def", Entry{Metadata: "arm64-Debug"}))

	got, ok, err := s.Lookup(mod, "amd64-Release-abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Libs, got.Libs)
	assert.Equal(t, entry.Options, got.Options)
	assert.True(t, got.BuildTime.Equal(now))

	assert.FileExists(t, filepath.Join(s.Root(), "clickhouse", cacheFile))
}

func TestLookupInvalidCache(t *testing.T) {
	s := New(t.TempDir())
	dir := filepath.Join(s.Root(), "clickhouse")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFile), []byte("invalid json"), 0o644))

	_, _, err := s.Lookup(module.Version{Path: "clickhouse", Version: "2.1.0"}, "v")
	assert.ErrorContains(t, err, "parse")
}

func TestInstalledSkipsBuildOutputs(t *testing.T) {
	s := New(t.TempDir())
	mod := module.Version{Path: "clickhouse", Version: "2.1.0"}
	install(t, s, mod)

	out, err := s.InstallDir(mod, "amd64-Release-abc")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, s.Record(mod, "amd64-Release-abc", Entry{Dir: out}))

	versions, err := s.Installed("clickhouse")
	require.NoError(t, err)
	assert.Equal(t, []string{"2.1.0"}, versions)
}

func TestDirs(t *testing.T) {
	s := New("/ws")
	mod := module.Version{Path: "clickhouse", Version: "2.1.0"}

	dir, err := s.InstallDir(mod, "v1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/ws", "clickhouse@2.1.0-v1"), dir)

	dir, err = s.BuildDir("clickhouse", "v1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/ws", "clickhouse", "build-v1"), dir)

	_, err = s.PackageDir(module.Version{Path: "../escape", Version: "1"})
	assert.Error(t, err)
}
