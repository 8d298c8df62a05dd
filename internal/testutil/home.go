// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// homeVar is the variable os.UserHomeDir reads on goos.
func homeVar(goos string) string {
	switch goos {
	case "windows":
		return "USERPROFILE"
	case "plan9":
		return "home"
	default:
		return "HOME"
	}
}

// SetHomeDir points the platform home variable at dir and returns a function
// restoring the previous value.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, homeVar(runtime.GOOS), dir)
}

// ClearHomeDir unsets the platform home variable, leaving the user's home
// undetectable, and returns a function restoring the previous value.
func ClearHomeDir(t testing.TB) func() {
	t.Helper()
	return MustUnsetenv(t, homeVar(runtime.GOOS))
}
