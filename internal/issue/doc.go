// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// remediation hints. The Issue catalog holds longer Markdown guidance for the
// failure classes orbit reports (configuration, discovery, network, integrity,
// compatibility, corruption), rendered with glamour by the command layer.
package issue
