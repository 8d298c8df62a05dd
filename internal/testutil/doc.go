// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error and
// return cleanup functions for process state they change.
//
// Helpers cover environment variables (MustSetenv, MustUnsetenv, SetHomeDir,
// ClearHomeDir) and the filesystem (MustChdir, MustMkdirAll, MustWriteFile,
// MustReadFile).
package testutil
