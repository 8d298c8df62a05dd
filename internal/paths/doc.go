// SPDX-License-Identifier: MPL-2.0

// Package paths resolves the orbit home, cache, and downloads directories and
// keeps the cache directory tagged so generic tooling treats it as a
// regenerable cache (https://bford.info/cachedir/).
package paths
