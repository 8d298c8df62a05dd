// SPDX-License-Identifier: MPL-2.0

// Package env publishes resolved orbit paths as environment values.
//
// Resolution code records values into an Environment instead of mutating the
// process environment directly. The command layer calls Export once, after the
// execution context is fully built, so plugins launched as child processes
// still inherit the ORBIT_* variables they expect.
package env
