// SPDX-License-Identifier: MPL-2.0

// Package platform names operating systems and the release target string
// orbit's published archives are keyed by.
package platform
