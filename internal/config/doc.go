// SPDX-License-Identifier: MPL-2.0

// Package config loads orbit's layered TOML configuration.
//
// Two layers exist. The global document lives at $ORBIT_HOME/config.toml and
// is created empty when missing. The local document lives at
// <ip root>/.orbit/config.toml and is read only when the current directory
// is inside an IP and the file exists. Each document is decoded with go-toml,
// checked against an embedded CUE schema (config_schema.cue), and merged into
// a Viper instance so that a field set locally overrides the same field set
// globally, and a field set in neither falls back to DefaultConfig.
package config
