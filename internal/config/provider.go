// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// HomeDir is the resolved orbit home holding the global document.
	HomeDir string
	// WorkspaceRoot is the detected IP root, or empty outside an IP.
	WorkspaceRoot string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Layered, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider backed by the filesystem.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads every configuration layer and returns them with their merge.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Layered, error) {
	return load(ctx, opts)
}
