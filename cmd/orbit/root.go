// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cdotrus/orbit/internal/app"
	"github.com/cdotrus/orbit/internal/env"
	"github.com/cdotrus/orbit/internal/selfupdate"
)

// skipContextAnnotation marks commands that run without an app.Context, and
// so without reading configuration or touching the orbit home.
const skipContextAnnotation = "orbit/skip-context"

// Version is the semantic version of this build (set via -ldflags). It must
// stay a plain MAJOR.MINOR.PATCH so upgrades can compare against it.
var Version = "0.0.0"

type (
	// App holds the state shared by every command of one process: its
	// streams, its logger, and the context built by the root command.
	App struct {
		stdout      io.Writer
		stderr      io.Writer
		stdin       io.Reader
		env         *env.Environment
		workDir     string
		export      bool
		releaseOpts []selfupdate.ClientOption
		logger      *log.Logger
		verbose     bool
		ctx         *app.Context
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader
		// Env is the environment overlay; nil reads the process environment.
		Env *env.Environment
		// WorkDir is where IP detection starts; empty uses the current directory.
		WorkDir string
		// Export writes resolved ORBIT_* values into the process environment
		// once the context is built.
		Export bool
		// ReleaseOptions configure the release client used by upgrade.
		ReleaseOptions []selfupdate.ClientOption
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	a := &App{
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		stdin:       deps.Stdin,
		env:         deps.Env,
		workDir:     deps.WorkDir,
		export:      deps.Export,
		releaseOpts: deps.ReleaseOptions,
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.env == nil {
		a.env = env.New()
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: "orbit"})
	return a
}

// Context returns the context built before the running command, or nil for
// commands that skip it.
func (a *App) Context() *app.Context { return a.ctx }

func newRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "orbit",
		Short: "A package manager and build tool for HDL IP",
		Long: TitleStyle.Render("orbit") + SubtitleStyle.Render(" - A package manager and build tool for HDL IP") + `

orbit manages IP: independently versioned VHDL and Verilog packages,
each marked by an Orbit.toml manifest at its root.

` + SubtitleStyle.Render("Configuration:") + `
  ~/.orbit/config.toml           global settings (ORBIT_HOME overrides ~/.orbit)
  <ip root>/.orbit/config.toml   local settings, override global ones

` + SubtitleStyle.Render("Examples:") + `
  orbit env                Show the resolved ORBIT_* variables
  orbit config list        Show every loaded configuration document
  orbit upgrade            Install the latest orbit release`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
			if cmd.Annotations[skipContextAnnotation] != "" {
				return nil
			}
			return a.initContext(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetIn(a.stdin)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newEnvCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
		newUpgradeCommand(a),
	)
	return root
}

// initContext builds the app.Context. Any failure is rendered and ends the
// process before the command runs.
func (a *App) initContext(cmd *cobra.Command) error {
	c, err := app.NewContext(cmd.Context(), app.Options{
		Env:     a.env,
		Logger:  a.logger,
		WorkDir: a.workDir,
	})
	if err != nil {
		return renderError(a.stderr, a.logger, err, a.verbose)
	}

	if c.Verbose() && !a.verbose {
		a.verbose = true
		a.logger.SetLevel(log.DebugLevel)
	}

	if a.export {
		if err := c.Env().Export(); err != nil {
			return renderError(a.stderr, a.logger, err, a.verbose)
		}
	}

	a.ctx = c
	return nil
}

// Execute runs the orbit command tree and exits with the resulting status.
// This is called by main.main().
func Execute() {
	a := NewApp(Dependencies{Export: true})

	if err := fang.Execute(
		context.Background(),
		newRootCommand(a),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
