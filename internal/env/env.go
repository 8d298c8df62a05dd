// SPDX-License-Identifier: MPL-2.0

package env

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Environment variable keys recognized by orbit.
const (
	// HomeKey overrides the orbit home directory.
	HomeKey = "ORBIT_HOME"
	// CacheKey overrides the cache directory holding installed IP.
	CacheKey = "ORBIT_CACHE"
	// DownloadsKey overrides the directory holding downloaded IP archives.
	DownloadsKey = "ORBIT_DOWNLOADS"
	// IPPathKey holds the detected workspace (IP) root.
	IPPathKey = "ORBIT_IP_PATH"
	// BuildDirKey holds the build directory name.
	BuildDirKey = "ORBIT_BUILD_DIR"
	// WinLiteralCmdKey disables batch-file matching for plugin commands on Windows.
	WinLiteralCmdKey = "ORBIT_WIN_LITERAL_CMD"
)

type (
	// LookupFunc reads a variable from an underlying source.
	LookupFunc func(key string) (string, bool)

	// Environment is an overlay over a base lookup (the process environment by
	// default). Values recorded with Set shadow the base and are what child
	// processes and downstream components observe; the base is never mutated
	// until Export is called.
	Environment struct {
		lookup   LookupFunc
		recorded map[string]string
		order    []string
	}
)

// New returns an Environment backed by the process environment.
func New() *Environment {
	return NewWithLookup(os.LookupEnv)
}

// NewWithLookup returns an Environment backed by lookup. A nil lookup
// behaves as an empty base.
func NewWithLookup(lookup LookupFunc) *Environment {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &Environment{
		lookup:   lookup,
		recorded: make(map[string]string),
	}
}

// FromMap returns an Environment whose base is a fixed map. Used by tests.
func FromMap(m map[string]string) *Environment {
	base := maps.Clone(m)
	return NewWithLookup(func(key string) (string, bool) {
		v, ok := base[key]
		return v, ok
	})
}

// Lookup returns the recorded value for key if one exists, otherwise the
// base value. Empty values are treated as unset.
func (e *Environment) Lookup(key string) (string, bool) {
	if v, ok := e.recorded[key]; ok {
		return v, true
	}
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Get returns the value for key, or "" when unset.
func (e *Environment) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Set records value under key.
func (e *Environment) Set(key, value string) {
	if _, ok := e.recorded[key]; !ok {
		e.order = append(e.order, key)
	}
	e.recorded[key] = value
}

// Recorded returns a copy of every value recorded with Set.
func (e *Environment) Recorded() map[string]string {
	return maps.Clone(e.recorded)
}

// Keys returns the recorded keys in the order they were first set.
func (e *Environment) Keys() []string {
	return slices.Clone(e.order)
}

// Export writes every recorded value into the process environment so that
// external plugin processes which read ORBIT_* variables inherit them.
func (e *Environment) Export() error {
	for _, key := range e.order {
		if err := os.Setenv(key, e.recorded[key]); err != nil {
			return err
		}
	}
	return nil
}

// Environ returns base (typically os.Environ()) with the recorded values
// and extra applied on top, in KEY=VALUE form suitable for exec.Cmd.Env.
// Recorded values win over extra, extra wins over base.
func (e *Environment) Environ(base []string, extra map[string]string) []string {
	merged := make(map[string]string, len(base)+len(extra)+len(e.recorded))
	var order []string
	put := func(k, v string) {
		if _, ok := merged[k]; !ok {
			order = append(order, k)
		}
		merged[k] = v
	}
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		put(k, v)
	}
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		put(k, extra[k])
	}
	for _, k := range e.order {
		put(k, e.recorded[k])
	}

	out := make([]string, 0, len(order))
	for _, k := range order {
		out = append(out, k+"="+merged[k])
	}
	return out
}
