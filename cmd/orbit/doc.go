// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the orbit CLI commands.
//
// The root command builds an app.Context before any subcommand runs, so a
// bad directory override or a malformed configuration document stops the
// process before command code executes. Subcommands here cover the parts of
// orbit that operate on the installation itself: env, config list, version
// and upgrade.
package cmd
