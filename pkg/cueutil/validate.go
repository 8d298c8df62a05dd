// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Validate checks already-decoded data (typically the map produced by a TOML
// or JSON decoder) against the definition at schemaPath in schema:
//
//  1. Compile the embedded schema
//  2. Encode the Go value and unify it with the definition
//  3. Validate, reporting failures with JSON-path prefixes
//
// Definitions are closed, so keys the schema does not name are rejected.
func Validate(schema, schemaPath string, data any, opts ...Option) error {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	userValue := ctx.Encode(data)
	if userValue.Err() != nil {
		return FormatError(userValue.Err(), options.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return FormatError(err, options.filename)
	}
	return nil
}
