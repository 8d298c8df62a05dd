// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates decoded configuration data against embedded CUE
// schemas and formats CUE errors with JSON-path prefixes.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
//	    return err
//	}
//	if err := cueutil.Validate(schema, "#Config", doc, cueutil.WithFilename(path)); err != nil {
//	    return err // includes the offending field path
//	}
package cueutil
