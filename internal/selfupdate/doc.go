// SPDX-License-Identifier: MPL-2.0

// Package selfupdate replaces the running orbit binary with the latest
// published release.
//
// The upgrade runs as a sequential state machine (see Stage): the release
// metadata is checked first, and only a strictly newer version proceeds,
// after confirmation unless forced. The checksum manifest is fetched, the
// platform archive is downloaded in full and its SHA-256 digest compared to
// the manifest entry, and only a verified archive is extracted. The binary
// swap keeps the previous executable next to the new one as orbit-<version>.
//
// Stale binaries from earlier upgrades are purged at the start of the swap,
// never before verification succeeds.
//
// No network call is retried and there is no locking between concurrent
// invocations.
package selfupdate
