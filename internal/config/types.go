// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LangModeVHDL restricts source discovery to VHDL files.
	LangModeVHDL LangMode = "vhdl"
	// LangModeVerilog restricts source discovery to Verilog/SystemVerilog files.
	LangModeVerilog LangMode = "verilog"
	// LangModeMixed accepts both languages.
	LangModeMixed LangMode = "mixed"

	// DefaultBuildDir is the build directory name used when no layer sets one.
	DefaultBuildDir = "target"
)

const (
	// Global marks a document loaded from the orbit home directory.
	Global Locality = iota
	// Local marks a document loaded from the current IP's .orbit directory.
	Local
)

var (
	// ErrInvalidLangMode is returned when a LangMode value is not recognized.
	ErrInvalidLangMode = errors.New("invalid language mode")
	// ErrInvalidPlugin is the sentinel error wrapped by InvalidPluginError.
	ErrInvalidPlugin = errors.New("invalid plugin")
	// ErrDuplicatePlugin is returned when two effective plugins share a name.
	ErrDuplicatePlugin = errors.New("duplicate plugin name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LangMode selects which HDL source files orbit considers.
	LangMode string

	// InvalidLangModeError is returned when a LangMode value is not recognized.
	// It wraps ErrInvalidLangMode for errors.Is() compatibility.
	InvalidLangModeError struct {
		Value LangMode
	}

	// Locality tags where a configuration document was loaded from.
	Locality int

	// InvalidPluginError is returned when a Plugin has invalid fields.
	InvalidPluginError struct {
		Name        string
		FieldErrors []error
	}

	// DuplicatePluginError names a plugin declared more than once in the
	// effective configuration.
	DuplicatePluginError struct {
		Name string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the effective configuration after all layers are merged.
	Config struct {
		// Include lists additional configuration files. They are recorded, not followed.
		Include []string `toml:"include" mapstructure:"include"`
		// General holds the [general] table.
		General General `toml:"general" mapstructure:"general"`
		// Env holds extra environment values passed to plugins.
		Env map[string]string `toml:"env,omitempty" mapstructure:"-"`
		// Plugins holds the [[plugin]] array.
		Plugins []Plugin `toml:"plugin,omitempty" mapstructure:"-"`
		// Protocols holds the [[protocol]] array.
		Protocols []Protocol `toml:"protocol,omitempty" mapstructure:"-"`
	}

	// General holds workspace-independent settings.
	General struct {
		BuildDir string   `toml:"build-dir" mapstructure:"build-dir"`
		LangMode LangMode `toml:"language-mode" mapstructure:"language-mode"`
		Verbose  bool     `toml:"verbose" mapstructure:"verbose"`
	}

	// Plugin describes an external backend command invoked by `orbit build`.
	Plugin struct {
		Name    string            `toml:"name"`
		Command string            `toml:"command"`
		Args    []string          `toml:"args,omitempty"`
		Summary string            `toml:"summary,omitempty"`
		Details string            `toml:"details,omitempty"`
		Fileset map[string]string `toml:"fileset,omitempty"`
	}

	// Protocol describes an external command used to download IP.
	Protocol struct {
		Name    string   `toml:"name"`
		Command string   `toml:"command"`
		Args    []string `toml:"args,omitempty"`
		Summary string   `toml:"summary,omitempty"`
	}
)

// String returns the lowercase name of the locality.
func (l Locality) String() string {
	switch l {
	case Global:
		return "global"
	case Local:
		return "local"
	default:
		return fmt.Sprintf("Locality(%d)", int(l))
	}
}

// String returns the string representation of the LangMode.
func (m LangMode) String() string { return string(m) }

// IsValid returns whether the LangMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m LangMode) IsValid() (bool, []error) {
	switch m {
	case LangModeVHDL, LangModeVerilog, LangModeMixed:
		return true, nil
	default:
		return false, []error{&InvalidLangModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidLangModeError.
func (e *InvalidLangModeError) Error() string {
	return fmt.Sprintf("invalid language mode %q (valid: vhdl, verilog, mixed)", e.Value)
}

// Unwrap returns ErrInvalidLangMode for errors.Is() compatibility.
func (e *InvalidLangModeError) Unwrap() error { return ErrInvalidLangMode }

// IsValid returns whether the Plugin has a name and a command.
func (p Plugin) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name must be non-empty"))
	}
	if strings.TrimSpace(p.Command) == "" {
		errs = append(errs, errors.New("command must be non-empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPluginError{Name: p.Name, FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPluginError.
func (e *InvalidPluginError) Error() string {
	return fmt.Sprintf("invalid plugin %q: %s", e.Name, errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidPlugin for errors.Is() compatibility.
func (e *InvalidPluginError) Unwrap() error { return ErrInvalidPlugin }

// Error implements the error interface for DuplicatePluginError.
func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q is defined more than once", e.Name)
}

// Unwrap returns ErrDuplicatePlugin for errors.Is() compatibility.
func (e *DuplicatePluginError) Unwrap() error { return ErrDuplicatePlugin }

// IsValid returns whether the Config has valid fields.
// It checks General.LangMode, each plugin, and plugin name uniqueness.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.General.LangMode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	seen := make(map[string]bool, len(c.Plugins))
	for _, p := range c.Plugins {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
			continue
		}
		if seen[p.Name] {
			errs = append(errs, &DuplicatePluginError{Name: p.Name})
		}
		seen[p.Name] = true
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// PluginRegistry returns the effective plugins keyed by name.
// Call IsValid first; later duplicates overwrite earlier ones.
func (c Config) PluginRegistry() map[string]Plugin {
	reg := make(map[string]Plugin, len(c.Plugins))
	for _, p := range c.Plugins {
		reg[p.Name] = p
	}
	return reg
}

// DefaultConfig returns the built-in configuration used for any field no
// layer sets.
func DefaultConfig() *Config {
	return &Config{
		Include: []string{},
		General: General{
			BuildDir: DefaultBuildDir,
			LangMode: LangModeMixed,
			Verbose:  false,
		},
		Env: map[string]string{},
	}
}
