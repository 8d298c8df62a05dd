// SPDX-License-Identifier: MPL-2.0

// Package app builds the execution context shared by every orbit command.
//
// NewContext runs a fixed sequence of fallible steps: resolve the home,
// cache and downloads directories (tagging the cache), detect the enclosing
// IP, then load and merge configuration. Each resolved value is recorded in
// the context's env.Environment rather than the process environment; the CLI
// calls Export once at the process boundary so plugins still inherit the
// ORBIT_* variables.
package app
