// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestIsStaleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"orbit-1.0.0", true},
		{"orbit-0.10.2", true},
		{"orbit-1.0.0.exe", false},
		{"orbit", false},
		{"orbit-", false},
		{"orbit-1.0", false},
		{"orbit-1.0.0-x86_64-linux.zip", false},
		{"orbit-1.0.0-checksums.txt", false},
		{"orbit-latest", false},
		{"norbit-1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isStaleName(tt.name); got != tt.want {
				t.Errorf("isStaleName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStaleName(t *testing.T) {
	t.Parallel()

	// No executable suffix, even where the running binary has one.
	if got := StaleName(mustVersion(t, "1.2.3")); got != "orbit-1.2.3" {
		t.Errorf("StaleName() = %q, want orbit-1.2.3", got)
	}
}

func TestPurgeStale(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	names := []string{StaleName(mustVersion(t, "0.1.0")), StaleName(mustVersion(t, "0.2.0")), "orbit-readme.md"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// A directory matching the naming pattern is not a binary.
	dirLike := filepath.Join(dir, StaleName(mustVersion(t, "0.3.0")))
	if err := os.Mkdir(dirLike, 0o755); err != nil {
		t.Fatal(err)
	}

	keep := filepath.Join(dir, names[1])
	removed, err := purgeStale(dir, keep)
	if err != nil {
		t.Fatalf("purgeStale() error: %v", err)
	}

	want := []string{filepath.Join(dir, names[0])}
	if !slices.Equal(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
	for _, p := range []string{keep, filepath.Join(dir, "orbit-readme.md"), dirLike} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should be kept: %v", p, err)
		}
	}
}

func TestPurgeStale_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := purgeStale(filepath.Join(t.TempDir(), "gone"), "")
	if err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestSwapBinary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "orbit")
	stale := filepath.Join(dir, "orbit-1.0.0")
	newExe := filepath.Join(t.TempDir(), "orbit")

	if err := os.WriteFile(target, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newExe, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := swapBinary(target, stale, newExe); err != nil {
		t.Fatalf("swapBinary() error: %v", err)
	}
	if got := readString(t, target); got != "new" {
		t.Errorf("target = %q, want new", got)
	}
	if got := readString(t, stale); got != "old" {
		t.Errorf("stale = %q, want old", got)
	}
	if goos != "windows" {
		info, err := os.Stat(target)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("target mode = %v, want the previous binary's 0755", info.Mode().Perm())
		}
	}
}

func TestSwapBinary_MissingTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := swapBinary(filepath.Join(dir, "orbit"), filepath.Join(dir, "orbit-1.0.0"), filepath.Join(dir, "new"))
	if err == nil || !strings.Contains(err.Error(), "reading current binary") {
		t.Errorf("expected missing target error, got: %v", err)
	}
}

func TestResolveExecPath_Errors(t *testing.T) {
	origExec, origEval := osExecutable, evalSymlinks
	t.Cleanup(func() { osExecutable, evalSymlinks = origExec, origEval })

	osExecutable = func() (string, error) { return "", errors.New("unsupported") }
	if _, err := resolveExecPath(); err == nil || !strings.Contains(err.Error(), "determining executable path") {
		t.Errorf("expected executable error, got: %v", err)
	}

	osExecutable = func() (string, error) { return "/opt/orbit/bin/orbit", nil }
	evalSymlinks = func(string) (string, error) { return "", os.ErrNotExist }
	_, err := resolveExecPath()
	if !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), "/opt/orbit/bin/orbit") {
		t.Errorf("expected symlink error naming the path, got: %v", err)
	}

	evalSymlinks = func(string) (string, error) { return "/usr/local/orbit", nil }
	got, err := resolveExecPath()
	if err != nil || got != "/usr/local/orbit" {
		t.Errorf("resolveExecPath() = %q, %v", got, err)
	}
}

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := ParseVersion(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
