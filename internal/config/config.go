// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/cdotrus/orbit/internal/issue"
	"github.com/cdotrus/orbit/pkg/cueutil"
)

const (
	// ConfigFileName is the name of every configuration document.
	ConfigFileName = "config.toml"
	// LocalDirName is the directory under an IP root holding its local document.
	LocalDirName = ".orbit"

	schemaDefinition = "#Config"
	filePerm         = 0o644
)

// ErrMalformedDocument is the sentinel wrapped by ParseError.
var ErrMalformedDocument = errors.New("malformed configuration document")

//go:embed config_schema.cue
var configSchema string

type (
	// ParseError names the document that failed to decode or validate.
	ParseError struct {
		Path string
		Err  error
	}

	// Document is one loaded configuration layer.
	Document struct {
		// Path is the absolute location the document was read from.
		Path string
		// Locality tags the layer.
		Locality Locality
		// Content is the raw TOML text.
		Content []byte

		values map[string]any
	}

	// Layered is the outcome of loading every configuration layer.
	Layered struct {
		// Documents lists the loaded layers in precedence order, Global first.
		Documents []Document
		// Config is the effective configuration.
		Config *Config
	}

	layer struct {
		path     string
		locality Locality
	}

	// tables holds the keys merged outside viper. Viper folds map keys to
	// lowercase, which would corrupt environment variable names and fileset
	// labels.
	tables struct {
		Env       map[string]string `toml:"env"`
		Plugins   []Plugin          `toml:"plugin"`
		Protocols []Protocol        `toml:"protocol"`
	}
)

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse configuration %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrMalformedDocument and the decoder error.
func (e *ParseError) Unwrap() []error { return []error{ErrMalformedDocument, e.Err} }

// GlobalPath returns the global document location for the orbit home.
func GlobalPath(home string) string {
	return filepath.Join(home, ConfigFileName)
}

// LocalPath returns the local document location for an IP root.
func LocalPath(root string) string {
	return filepath.Join(root, LocalDirName, ConfigFileName)
}

// load reads the global document (creating it empty when absent), then the
// local document if a workspace root is known and the file exists, and
// merges them. Nothing is returned unless every layer parsed and the merged
// result is valid.
func load(ctx context.Context, opts LoadOptions) (*Layered, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	globalPath := GlobalPath(opts.HomeDir)
	if err := ensureFile(globalPath); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("create global configuration").
			WithResource(globalPath).
			WithSuggestion("Check that the orbit home directory is writable").
			Wrap(err).
			BuildError()
	}

	layers := []layer{{globalPath, Global}}
	if opts.WorkspaceRoot != "" {
		if localPath := LocalPath(opts.WorkspaceRoot); fileExists(localPath) {
			layers = append(layers, layer{localPath, Local})
		}
	}

	docs := make([]Document, 0, len(layers))
	for _, p := range layers {
		doc, err := readDocument(p.path, p.locality)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(p.path).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Verify the keys match the configuration reference").
				Wrap(err).
				BuildError()
		}
		docs = append(docs, doc)
	}

	cfg, err := merge(docs)
	if err != nil {
		return nil, err
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Give every [[plugin]] a unique name and a command").
			Wrap(errs[0]).
			BuildError()
	}

	return &Layered{Documents: docs, Config: cfg}, nil
}

// readDocument decodes and schema-checks one TOML file.
func readDocument(path string, locality Locality) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return Document{}, &ParseError{Path: path, Err: err}
	}

	values := map[string]any{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return Document{}, &ParseError{Path: path, Err: err}
	}
	if values == nil {
		values = map[string]any{}
	}

	if err := cueutil.Validate(configSchema, schemaDefinition, values, cueutil.WithFilename(path)); err != nil {
		return Document{}, &ParseError{Path: path, Err: err}
	}

	return Document{
		Path:     path,
		Locality: locality,
		Content:  data,
		values:   values,
	}, nil
}

// merge folds docs, in order, over the defaults. Tables merge key by key and
// arrays or scalars in a later document replace earlier values.
func merge(docs []Document) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("include", defaults.Include)
	v.SetDefault("general.build-dir", defaults.General.BuildDir)
	v.SetDefault("general.language-mode", string(defaults.General.LangMode))
	v.SetDefault("general.verbose", defaults.General.Verbose)

	env := maps.Clone(defaults.Env)
	var plugins []Plugin
	var protocols []Protocol

	for _, doc := range docs {
		settings := maps.Clone(doc.values)
		delete(settings, "env")
		delete(settings, "plugin")
		delete(settings, "protocol")
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", doc.Path, err)
		}

		var t tables
		if err := toml.Unmarshal(doc.Content, &t); err != nil {
			return nil, &ParseError{Path: doc.Path, Err: err}
		}
		maps.Copy(env, t.Env)
		if t.Plugins != nil {
			plugins = t.Plugins
		}
		if t.Protocols != nil {
			protocols = t.Protocols
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Env = env
	cfg.Plugins = plugins
	cfg.Protocols = protocols

	return &cfg, nil
}

// ensureFile creates an empty file at path unless something already exists there.
func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, nil, filePerm)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
