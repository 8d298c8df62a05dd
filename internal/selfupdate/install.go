// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/inconshreveable/go-update"
)

// StalePrefix starts the name of every preserved previous executable.
const StalePrefix = "orbit-"

var (
	//nolint:gochecknoglobals // Test seam for os.Executable().
	osExecutable = os.Executable

	//nolint:gochecknoglobals // Test seam for filepath.EvalSymlinks().
	evalSymlinks = filepath.EvalSymlinks

	//nolint:gochecknoglobals // Test seam for the executable suffix.
	goos = runtime.GOOS
)

// StaleName returns the file name a binary of version v is preserved under,
// "orbit-<version>" on every platform.
func StaleName(v *semver.Version) string {
	return StalePrefix + v.String()
}

// isStaleName reports whether name is exactly "orbit-" followed by a version.
// Release archives and checksum manifests that share the prefix do not match.
func isStaleName(name string) bool {
	rest, ok := strings.CutPrefix(name, StalePrefix)
	if !ok {
		return false
	}
	_, err := ParseVersion(rest)
	return err == nil
}

// purgeStale removes previously preserved binaries from dir, leaving keep
// (the running executable) untouched. It returns the removed paths.
func purgeStale(dir, keep string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var removed []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isStaleName(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if path == keep {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing stale binary %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// swapBinary moves the executable at target to stalePath and puts the file
// at newExe in its place with target's permissions. The replacement is
// written next to target first, so target only goes missing between two
// renames. On failure go-update attempts to restore target; a failed
// restore is reported through update.RollbackError.
func swapBinary(target, stalePath, newExe string) (err error) {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("reading current binary: %w", err)
	}

	f, err := os.Open(newExe)
	if err != nil {
		return fmt.Errorf("opening new binary: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only file handle

	return update.Apply(f, update.Options{
		TargetPath:  target,
		TargetMode:  info.Mode().Perm(),
		OldSavePath: stalePath,
	})
}

// resolveExecPath returns the absolute, symlink-resolved path to the currently
// running binary.
func resolveExecPath() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}

	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}

	return resolved, nil
}
