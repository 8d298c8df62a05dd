// SPDX-License-Identifier: MPL-2.0

// Package workspace locates the IP (package) root that encloses a directory.
//
// An IP root is the nearest directory, walking upward, that directly holds an
// Orbit.toml manifest. The walk follows the lexical parent chain and has no
// protection against symlink loops.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
)

// ManifestFileName marks the root directory of an IP.
const ManifestFileName = "Orbit.toml"

// ErrNoWorkspace is returned by Require when no IP root was detected.
var ErrNoWorkspace = errors.New("no orbit IP detected in current directory or any parent directory")

// FindUpwards returns the first directory, starting at start and moving to
// each parent in turn, that has an entry named target as a direct child.
// A directory that cannot be read counts as a non-match. The second result
// is false when the filesystem root is passed without a match. A relative
// start is taken from the working directory, and the returned path is always
// absolute.
func FindUpwards(start, target string) (string, bool) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if hasEntry(cur, target) {
			return cur, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// FindIPRoot searches upward from start for the IP manifest.
func FindIPRoot(start string) (string, bool) {
	return FindUpwards(start, ManifestFileName)
}

// Require returns root unchanged, or ErrNoWorkspace when root is empty.
// Commands that only make sense inside an IP call this on the detected root.
func Require(root string) (string, error) {
	if root == "" {
		return "", ErrNoWorkspace
	}
	return root, nil
}

// hasEntry scans dir's listing for an exact name match, so that the result
// honours the filesystem's own spelling even on case-insensitive volumes.
func hasEntry(dir, name string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Name() == name {
			return true
		}
	}
	return false
}
