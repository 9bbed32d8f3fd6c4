package env

import (
	"os"
	"path/filepath"
)

// WorkDir returns the default workspace directory under the user cache dir.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".chpkg"), nil
}

// SourceDir returns the directory that holds fetched package sources,
// creating it if needed.
func SourceDir() (string, error) {
	workDir, err := WorkDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(workDir, "src")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
