// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum document size accepted for
// validation (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// validateOptions holds configuration for schema validation.
	validateOptions struct {
		concrete bool
		filename string
	}

	// Option configures validation behavior.
	Option func(*validateOptions)
)

func defaultOptions() validateOptions {
	return validateOptions{
		concrete: true,
		filename: "<input>",
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Default is true.
func WithConcrete(concrete bool) Option {
	return func(o *validateOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *validateOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
