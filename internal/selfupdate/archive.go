// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// maxBinaryBytes is the upper bound on any extracted file (500 MB).
// Prevents decompression bombs when unpacking a release archive.
const maxBinaryBytes = 500 << 20

// ErrMissingExecutable indicates a verified archive lacks the orbit executable.
var ErrMissingExecutable = errors.New("failed to find the binary in the downloaded package")

// MissingExecutableError names the path the executable was expected at.
type MissingExecutableError struct {
	Path string
}

// Error describes the expected path.
func (e *MissingExecutableError) Error() string {
	return fmt.Sprintf("%s (expected %s)", ErrMissingExecutable, e.Path)
}

// Unwrap returns ErrMissingExecutable so callers can use errors.Is.
func (e *MissingExecutableError) Unwrap() error { return ErrMissingExecutable }

// extractZip unpacks a zip archive held in memory into dir. Entries that
// would land outside dir are rejected.
func extractZip(data []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	root := filepath.Clean(dir) + string(os.PathSeparator)
	for _, f := range zr.File {
		dest := filepath.Join(dir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(dest, root) {
			return fmt.Errorf("archive entry %q escapes the extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dest, err)
			}
			continue
		}

		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }() // read-only entry reader

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(out, io.LimitReader(rc, maxBinaryBytes)); err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return nil
}

// packagedExecutablePath returns where a release archive for v and target
// keeps the orbit executable once extracted under dir:
// <dir>/orbit-<v>-<target>/bin/orbit[.exe].
func packagedExecutablePath(dir string, v *semver.Version, target, exeName string) string {
	return filepath.Join(dir, fmt.Sprintf("orbit-%s-%s", v, target), "bin", exeName)
}

// locateExecutable confirms the executable exists at path as a regular file.
func locateExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return &MissingExecutableError{Path: path}
	}
	return nil
}
