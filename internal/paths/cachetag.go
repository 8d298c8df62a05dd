// SPDX-License-Identifier: MPL-2.0

package paths

import (
	"bytes"
	"os"
	"path/filepath"
)

const (
	// CacheTagFileName is the marker file placed in the cache directory.
	CacheTagFileName = "CACHEDIR.TAG"

	// CacheTagContent is the exact content a valid marker file holds.
	CacheTagContent = "Signature: 8a477f597d28d172789f06886806bc55\n" +
		"# This file is a cache directory tag created by orbit.\n" +
		"# For information about cache directory tags see https://bford.info/cachedir/\n"
)

// IsCacheTagValid reports whether dir holds a regular CACHEDIR.TAG file with
// exactly the canonical content.
func IsCacheTagValid(dir string) bool {
	tag := filepath.Join(dir, CacheTagFileName)
	info, err := os.Stat(tag)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	data, err := os.ReadFile(tag)
	if err != nil {
		return false
	}
	return bytes.Equal(data, []byte(CacheTagContent))
}

// EnsureCacheTag rewrites the marker file in dir whenever it is missing or
// its content differs from the canonical text. It reports whether a write
// happened. Failures are returned to the caller to log; they never make the
// cache directory unusable.
func EnsureCacheTag(dir string) (bool, error) {
	if IsCacheTagValid(dir) {
		return false, nil
	}
	tag := filepath.Join(dir, CacheTagFileName)
	// A directory squatting on the tag name cannot be repaired by WriteFile.
	if info, err := os.Stat(tag); err == nil && info.IsDir() {
		if err := os.RemoveAll(tag); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(tag, []byte(CacheTagContent), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
