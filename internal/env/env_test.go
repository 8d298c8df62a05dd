// SPDX-License-Identifier: MPL-2.0

package env

import (
	"os"
	"slices"
	"testing"

	"github.com/cdotrus/orbit/internal/testutil"
)

func TestEnvironment_LookupPrefersRecorded(t *testing.T) {
	t.Parallel()

	e := FromMap(map[string]string{HomeKey: "/base/home", CacheKey: ""})

	if got, ok := e.Lookup(HomeKey); !ok || got != "/base/home" {
		t.Fatalf("Lookup(%s) = %q, %v; want /base/home, true", HomeKey, got, ok)
	}

	// Empty base values count as unset.
	if _, ok := e.Lookup(CacheKey); ok {
		t.Errorf("Lookup(%s) reported an empty value as set", CacheKey)
	}

	e.Set(HomeKey, "/recorded/home")
	if got := e.Get(HomeKey); got != "/recorded/home" {
		t.Errorf("Get(%s) = %q, want /recorded/home", HomeKey, got)
	}
}

func TestEnvironment_KeysKeepFirstSetOrder(t *testing.T) {
	t.Parallel()

	e := FromMap(nil)
	e.Set(CacheKey, "a")
	e.Set(HomeKey, "b")
	e.Set(CacheKey, "c")

	want := []string{CacheKey, HomeKey}
	if got := e.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got := e.Recorded()[CacheKey]; got != "c" {
		t.Errorf("Recorded()[%s] = %q, want c", CacheKey, got)
	}
}

func TestEnvironment_Environ(t *testing.T) {
	t.Parallel()

	e := FromMap(nil)
	e.Set(HomeKey, "/home/orbit")

	got := e.Environ(
		[]string{"PATH=/bin", HomeKey + "=/stale", "MALFORMED"},
		map[string]string{"TOOL": "ghdl", "PATH": "/opt/bin"},
	)
	want := []string{"PATH=/opt/bin", HomeKey + "=/home/orbit", "TOOL=ghdl"}

	if !slices.Equal(got, want) {
		t.Errorf("Environ() = %v, want %v", got, want)
	}
}

func TestEnvironment_Export(t *testing.T) {
	// Not parallel: mutates the process environment.
	t.Cleanup(testutil.MustUnsetenv(t, BuildDirKey))

	e := FromMap(nil)
	e.Set(BuildDirKey, "target")

	if err := e.Export(); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if got := os.Getenv(BuildDirKey); got != "target" {
		t.Errorf("os.Getenv(%s) = %q, want target", BuildDirKey, got)
	}
}
