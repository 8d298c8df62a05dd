// SPDX-License-Identifier: MPL-2.0

package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cdotrus/orbit/internal/env"
	"github.com/cdotrus/orbit/internal/testutil"
)

// overrideUserHome swaps the platform home seam for the duration of t.
func overrideUserHome(t *testing.T, fn func() (string, error)) {
	t.Helper()

	orig := userHomeDir
	t.Cleanup(func() { userHomeDir = orig })
	userHomeDir = fn
}

func TestResolveDirectory_OverrideUsedAsGiven(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	override := t.TempDir()
	e := env.FromMap(map[string]string{env.CacheKey: override})

	got, err := ResolveDirectory(e, home, env.CacheKey, CacheFolderName)
	if err != nil {
		t.Fatalf("ResolveDirectory() error: %v", err)
	}
	if got != override {
		t.Errorf("ResolveDirectory() = %q, want %q", got, override)
	}
	if _, err := os.Stat(filepath.Join(home, CacheFolderName)); !os.IsNotExist(err) {
		t.Errorf("default directory was created despite override (stat err: %v)", err)
	}
	if rec := e.Recorded()[env.CacheKey]; rec != filepath.ToSlash(override) {
		t.Errorf("recorded %s = %q, want %q", env.CacheKey, rec, filepath.ToSlash(override))
	}
}

func TestResolveDirectory_OverrideMustExist(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope")
	e := env.FromMap(map[string]string{env.DownloadsKey: missing})

	_, err := ResolveDirectory(e, t.TempDir(), env.DownloadsKey, DownloadsFolderName)
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}

	var dnf *DirectoryNotFoundError
	if !errors.As(err, &dnf) || dnf.Key != env.DownloadsKey {
		t.Errorf("expected DirectoryNotFoundError naming %s, got %#v", env.DownloadsKey, err)
	}
	if _, recorded := e.Recorded()[env.DownloadsKey]; recorded {
		t.Error("failed resolution must not record a value")
	}
}

func TestResolveDirectory_OverrideMustBeDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	e := env.FromMap(map[string]string{env.CacheKey: file})

	_, err := ResolveDirectory(e, t.TempDir(), env.CacheKey, CacheFolderName)
	var dnf *DirectoryNotFoundError
	if !errors.As(err, &dnf) || !dnf.NotDir {
		t.Fatalf("expected not-a-directory error, got %v", err)
	}
}

func TestResolveDirectory_DefaultIsCreatedAndIdempotent(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	e := env.FromMap(nil)
	want := filepath.ToSlash(filepath.Join(home, DownloadsFolderName))

	first, err := ResolveDirectory(e, home, env.DownloadsKey, DownloadsFolderName)
	if err != nil {
		t.Fatalf("first ResolveDirectory() error: %v", err)
	}
	if first != want {
		t.Errorf("first ResolveDirectory() = %q, want %q", first, want)
	}
	if info, err := os.Stat(first); err != nil || !info.IsDir() {
		t.Fatalf("default directory not created: %v", err)
	}

	second, err := ResolveDirectory(e, home, env.DownloadsKey, DownloadsFolderName)
	if err != nil {
		t.Fatalf("second ResolveDirectory() error: %v", err)
	}
	if second != first {
		t.Errorf("second ResolveDirectory() = %q, want %q", second, first)
	}
}

func TestResolveHome(t *testing.T) {
	// Not parallel: overrides the userHomeDir seam.

	t.Run("default under user home", func(t *testing.T) {
		user := t.TempDir()
		overrideUserHome(t, func() (string, error) { return user, nil })
		e := env.FromMap(nil)

		got, err := ResolveHome(e, env.HomeKey)
		if err != nil {
			t.Fatalf("ResolveHome() error: %v", err)
		}
		want := filepath.ToSlash(filepath.Join(user, HomeFolderName))
		if got != want {
			t.Errorf("ResolveHome() = %q, want %q", got, want)
		}
		if e.Get(env.HomeKey) != want {
			t.Errorf("recorded %s = %q, want %q", env.HomeKey, e.Get(env.HomeKey), want)
		}
	})

	t.Run("undetectable home", func(t *testing.T) {
		overrideUserHome(t, func() (string, error) { return "", errors.New("no home") })

		_, err := ResolveHome(env.FromMap(nil), env.HomeKey)
		if !errors.Is(err, ErrHomeUndetectable) {
			t.Fatalf("expected ErrHomeUndetectable, got %v", err)
		}
	})

	t.Run("override must exist", func(t *testing.T) {
		overrideUserHome(t, func() (string, error) {
			t.Fatal("platform home consulted despite override")
			return "", nil
		})
		e := env.FromMap(map[string]string{env.HomeKey: filepath.Join(t.TempDir(), "missing")})

		_, err := ResolveHome(e, env.HomeKey)
		if !errors.Is(err, ErrDirectoryNotFound) {
			t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
		}
	})
}

func TestPlatformHomeDir(t *testing.T) {
	// Not parallel: changes the process home variable.

	t.Run("unset home is undetectable", func(t *testing.T) {
		if runtime.GOOS == "android" || runtime.GOOS == "ios" {
			t.Skip("os.UserHomeDir has a fixed fallback on " + runtime.GOOS)
		}
		t.Cleanup(testutil.ClearHomeDir(t))

		_, err := ResolveHome(env.FromMap(nil), env.HomeKey)
		if !errors.Is(err, ErrHomeUndetectable) {
			t.Fatalf("expected ErrHomeUndetectable, got %v", err)
		}
	})

	t.Run("home variable is followed", func(t *testing.T) {
		if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
			t.Skip("xdg reads the home directory from known folders on " + runtime.GOOS)
		}
		user := t.TempDir()
		t.Cleanup(testutil.SetHomeDir(t, user))

		got, err := ResolveHome(env.FromMap(nil), env.HomeKey)
		if err != nil {
			t.Fatalf("ResolveHome() error: %v", err)
		}
		if want := filepath.ToSlash(filepath.Join(user, HomeFolderName)); got != want {
			t.Errorf("ResolveHome() = %q, want %q", got, want)
		}
	})
}

func TestLookupOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		base    map[string]string
		wantSet bool
		wantErr bool
		notDir  bool
	}{
		{"unset", nil, false, false, false},
		{"empty counts as unset", map[string]string{env.IPPathKey: ""}, false, false, false},
		{"existing directory", map[string]string{env.IPPathKey: dir}, true, false, false},
		{"missing", map[string]string{env.IPPathKey: filepath.Join(dir, "gone")}, true, true, false},
		{"regular file", map[string]string{env.IPPathKey: file}, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := env.FromMap(tt.base)
			got, set, err := LookupOverride(e, env.IPPathKey)
			if set != tt.wantSet {
				t.Errorf("set = %v, want %v", set, tt.wantSet)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var dnf *DirectoryNotFoundError
				if !errors.As(err, &dnf) || dnf.NotDir != tt.notDir {
					t.Errorf("expected DirectoryNotFoundError{NotDir: %v}, got %#v", tt.notDir, err)
				}
				return
			}
			if tt.wantSet && got != dir {
				t.Errorf("LookupOverride() = %q, want %q", got, dir)
			}
			if len(e.Recorded()) != 0 {
				t.Errorf("LookupOverride must not record, got %v", e.Recorded())
			}
		})
	}
}
