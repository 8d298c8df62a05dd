// SPDX-License-Identifier: MPL-2.0

package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/cdotrus/orbit/internal/env"
)

const (
	// HomeFolderName is the hidden folder created under the user's home
	// directory when no home override is set.
	HomeFolderName = ".orbit"
	// CacheFolderName is the default cache subfolder of the orbit home.
	CacheFolderName = "cache"
	// DownloadsFolderName is the default downloads subfolder of the orbit home.
	DownloadsFolderName = "downloads"

	dirPerm = 0o755
)

var (
	// ErrDirectoryNotFound is returned when an override names a path that
	// does not exist or is not a directory.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrHomeUndetectable is returned when no home override is set and the
	// platform home directory cannot be determined.
	ErrHomeUndetectable = errors.New("failed to detect user's home directory")

	//nolint:gochecknoglobals // Test seam for the platform home directory.
	userHomeDir = platformHomeDir
)

// DirectoryNotFoundError names the override key whose value is not an
// existing directory.
type DirectoryNotFoundError struct {
	Key    string
	Path   string
	NotDir bool
}

// Error describes which override is invalid.
func (e *DirectoryNotFoundError) Error() string {
	if e.NotDir {
		return fmt.Sprintf("%s must be a filesystem directory (%s)", e.Key, e.Path)
	}
	return fmt.Sprintf("directory %s does not exist for %s", e.Path, e.Key)
}

// Unwrap returns ErrDirectoryNotFound for errors.Is.
func (e *DirectoryNotFoundError) Unwrap() error { return ErrDirectoryNotFound }

// ResolveHome returns the orbit home directory. An override under key must
// name an existing directory. Without an override the home defaults to
// <user home>/.orbit, created on demand. The resolved path is recorded back
// into e under key.
func ResolveHome(e *env.Environment, key string) (string, error) {
	if override, ok := e.Lookup(key); ok {
		return useOverride(e, key, override)
	}

	base, err := userHomeDir()
	if err != nil || base == "" {
		return "", fmt.Errorf("%w; please set the %s environment variable", ErrHomeUndetectable, key)
	}

	dir, err := Standardize(filepath.Join(base, HomeFolderName))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", HomeFolderName, err)
	}

	e.Set(key, dir)
	return dir, nil
}

// ResolveDirectory returns the directory to use for key. An override must
// name an existing directory and is returned as given; otherwise the path
// defaults to <home>/<subfolder>, created if missing. Either way the
// standardized absolute path is recorded into e under key, so a repeated
// resolution (or a child process) observes the same directory.
func ResolveDirectory(e *env.Environment, home, key, subfolder string) (string, error) {
	if override, ok := e.Lookup(key); ok {
		return useOverride(e, key, override)
	}

	dir, err := Standardize(filepath.Join(home, subfolder))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating %s/%s directory: %w", HomeFolderName, subfolder, err)
	}

	e.Set(key, dir)
	return dir, nil
}

// LookupOverride returns the value of key when it is set, after checking
// that it names an existing directory. Unlike ResolveDirectory it neither
// falls back to a default nor records anything into e.
func LookupOverride(e *env.Environment, key string) (string, bool, error) {
	path, ok := e.Lookup(key)
	if !ok {
		return "", false, nil
	}
	if err := checkDirectory(key, path); err != nil {
		return "", true, err
	}
	return path, true, nil
}

// useOverride validates that path exists and is a directory, records its
// standardized form under key, and returns path unchanged.
func useOverride(e *env.Environment, key, path string) (string, error) {
	if err := checkDirectory(key, path); err != nil {
		return "", err
	}
	std, err := Standardize(path)
	if err != nil {
		return "", err
	}
	e.Set(key, std)
	return path, nil
}

func checkDirectory(key, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &DirectoryNotFoundError{Key: key, Path: path}
	}
	if !info.IsDir() {
		return &DirectoryNotFoundError{Key: key, Path: path, NotDir: true}
	}
	return nil
}

// Standardize returns the cleaned absolute form of path using forward
// slashes. Every path recorded into the environment goes through it, so
// values published to child processes look the same on every platform.
func Standardize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", path, err)
	}
	return filepath.ToSlash(filepath.Clean(abs)), nil
}

// platformHomeDir returns the user's home directory. xdg substitutes "/" for
// an unset HOME, so detectability is decided by os.UserHomeDir first.
func platformHomeDir() (string, error) {
	if _, err := os.UserHomeDir(); err != nil {
		return "", err
	}
	xdg.Reload()
	return xdg.Home, nil
}
