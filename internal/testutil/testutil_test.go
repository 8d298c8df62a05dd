// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "file.txt")
	MustWriteFile(t, path, []byte("hello"), 0o644)

	if got := string(MustReadFile(t, path)); got != "hello" {
		t.Errorf("MustReadFile() = %q, want %q", got, "hello")
	}
}

func TestMustSetenv_RestoresUnset(t *testing.T) {
	const key = "ORBIT_TESTUTIL_KEY"
	t.Cleanup(MustUnsetenv(t, key))

	cleanup := MustSetenv(t, key, "value")
	if got := os.Getenv(key); got != "value" {
		t.Fatalf("%s = %q, want %q", key, got, "value")
	}

	cleanup()
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s should be unset after cleanup", key)
	}
}
