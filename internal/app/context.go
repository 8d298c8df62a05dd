// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/cdotrus/orbit/internal/config"
	"github.com/cdotrus/orbit/internal/env"
	"github.com/cdotrus/orbit/internal/issue"
	"github.com/cdotrus/orbit/internal/paths"
	"github.com/cdotrus/orbit/internal/workspace"
	"github.com/cdotrus/orbit/pkg/platform"
)

type (
	// Options configures NewContext. Zero values select production defaults.
	Options struct {
		// Env is the environment overlay; nil uses the process environment.
		Env *env.Environment
		// Config loads the configuration layers; nil uses config.NewProvider().
		Config config.Provider
		// Logger receives warnings such as a failed cache tag write; nil discards.
		Logger *log.Logger
		// WorkDir is where the IP search starts when ORBIT_IP_PATH is unset;
		// empty uses the current directory.
		WorkDir string
		// GOOS overrides runtime.GOOS.
		GOOS string
	}

	// Context is the resolved state every orbit command runs against. It is
	// only obtainable from NewContext and is immutable afterwards.
	Context struct {
		env       *env.Environment
		home      string
		cache     string
		downloads string
		ipPath    string
		buildDir  string
		langMode  config.LangMode
		layered   *config.Layered
		plugins   map[string]config.Plugin
		goos      string
	}
)

// NewContext resolves directories, detects the enclosing IP, and loads
// configuration, in that order. It returns an error from the first step that
// fails and no Context at all in that case.
func NewContext(ctx context.Context, opts Options) (*Context, error) {
	e := opts.Env
	if e == nil {
		e = env.New()
	}
	provider := opts.Config
	if provider == nil {
		provider = config.NewProvider()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	home, err := paths.ResolveHome(e, env.HomeKey)
	if err != nil {
		return nil, directoryError("resolve orbit home", env.HomeKey, err)
	}

	cache, err := paths.ResolveDirectory(e, home, env.CacheKey, paths.CacheFolderName)
	if err != nil {
		return nil, directoryError("resolve cache directory", env.CacheKey, err)
	}
	if written, tagErr := paths.EnsureCacheTag(cache); tagErr != nil {
		logger.Warn("failed to write cache tag", "dir", cache, "err", tagErr)
	} else if written {
		logger.Debug("wrote cache tag", "dir", cache)
	}

	downloads, err := paths.ResolveDirectory(e, home, env.DownloadsKey, paths.DownloadsFolderName)
	if err != nil {
		return nil, directoryError("resolve downloads directory", env.DownloadsKey, err)
	}

	ipPath, err := detectIP(e, opts.WorkDir)
	if err != nil {
		return nil, err
	}

	layered, err := provider.Load(ctx, config.LoadOptions{HomeDir: home, WorkspaceRoot: ipPath})
	if err != nil {
		return nil, err
	}
	cfg := layered.Config

	buildDir := cfg.General.BuildDir
	if override, ok := e.Lookup(env.BuildDirKey); ok {
		buildDir = override
	}
	e.Set(env.BuildDirKey, buildDir)

	logger.Debug("context ready", "home", home, "ip", ipPath, "documents", len(layered.Documents))

	return &Context{
		env:       e,
		home:      home,
		cache:     cache,
		downloads: downloads,
		ipPath:    ipPath,
		buildDir:  buildDir,
		langMode:  cfg.General.LangMode,
		layered:   layered,
		plugins:   cfg.PluginRegistry(),
		goos:      goos,
	}, nil
}

// detectIP searches upward for the IP manifest from ORBIT_IP_PATH when set,
// otherwise from workDir. A found root is recorded under ORBIT_IP_PATH.
func detectIP(e *env.Environment, workDir string) (string, error) {
	start, set, err := paths.LookupOverride(e, env.IPPathKey)
	if err != nil {
		return "", directoryError("detect IP", env.IPPathKey, err)
	}
	if !set {
		start = workDir
		if start == "" {
			if start, err = os.Getwd(); err != nil {
				return "", fmt.Errorf("reading working directory: %w", err)
			}
		}
	}

	found, ok := workspace.FindIPRoot(start)
	if !ok {
		return "", nil
	}
	root, err := paths.Standardize(found)
	if err != nil {
		return "", err
	}
	e.Set(env.IPPathKey, root)
	return root, nil
}

func directoryError(op, key string, err error) error {
	ctx := issue.NewErrorContext().WithOperation(op).WithResource(key)
	if errors.Is(err, paths.ErrHomeUndetectable) {
		ctx = ctx.WithSuggestion("Set " + env.HomeKey + " to an existing directory")
	} else {
		ctx = ctx.WithSuggestion("Create the directory or unset " + key)
	}
	return ctx.Wrap(err).BuildError()
}

// HomePath returns the orbit home directory.
func (c *Context) HomePath() string { return c.home }

// CachePath returns the directory holding installed IP.
func (c *Context) CachePath() string { return c.cache }

// DownloadsPath returns the directory holding downloaded IP archives.
func (c *Context) DownloadsPath() string { return c.downloads }

// IPPath returns the enclosing IP root, if one was detected.
func (c *Context) IPPath() (string, bool) {
	return c.ipPath, c.ipPath != ""
}

// RequireIPPath returns the enclosing IP root or a failure explaining that
// the command must run inside an IP.
func (c *Context) RequireIPPath() (string, error) {
	root, err := workspace.Require(c.ipPath)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("locate IP").
			WithSuggestion("Run the command from a directory containing " + workspace.ManifestFileName).
			WithSuggestion("Or set " + env.IPPathKey + " to a directory inside the IP").
			Wrap(err).
			BuildError()
	}
	return root, nil
}

// GotoIPPath changes the process working directory to the IP root.
func (c *Context) GotoIPPath() error {
	root, err := c.RequireIPPath()
	if err != nil {
		return err
	}
	if err := os.Chdir(root); err != nil {
		return fmt.Errorf("changing directory to %s: %w", root, err)
	}
	return nil
}

// BuildDir returns the build directory name (not a path).
func (c *Context) BuildDir() string { return c.buildDir }

// LangMode returns the effective language mode.
func (c *Context) LangMode() config.LangMode { return c.langMode }

// Config returns the effective configuration.
func (c *Context) Config() *config.Config { return c.layered.Config }

// AllConfigs returns every loaded configuration document, Global first.
func (c *Context) AllConfigs() []config.Document { return c.layered.Documents }

// Plugins returns the effective plugins keyed by name.
func (c *Context) Plugins() map[string]config.Plugin { return c.plugins }

// Env returns the environment overlay holding every resolved value.
func (c *Context) Env() *env.Environment { return c.env }

// Environ returns the environment a plugin process should run with: the
// process environment, then the [env] table, then every value orbit resolved.
func (c *Context) Environ() []string {
	return c.env.Environ(os.Environ(), c.layered.Config.Env)
}

// EnableWindowsBatFileMatch reports whether plugin commands should also be
// matched against .bat files. Only on Windows, and only while
// ORBIT_WIN_LITERAL_CMD is unset.
func (c *Context) EnableWindowsBatFileMatch() bool {
	if c.goos != platform.Windows {
		return false
	}
	_, literal := c.env.Lookup(env.WinLiteralCmdKey)
	return !literal
}

// Verbose reports whether [general] verbose is enabled.
func (c *Context) Verbose() bool { return c.layered.Config.General.Verbose }
