// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdotrus/orbit/internal/config"
	"github.com/cdotrus/orbit/internal/env"
	"github.com/cdotrus/orbit/internal/testutil"
	"github.com/cdotrus/orbit/pkg/types"
)

type harness struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	home   string
}

// newHarness builds an App rooted at a fresh orbit home. extra is merged
// into the base environment.
func newHarness(t *testing.T, extra map[string]string) *harness {
	t.Helper()

	home := t.TempDir()
	base := map[string]string{env.HomeKey: home}
	for k, v := range extra {
		base[k] = v
	}

	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, home: home}
	h.app = NewApp(Dependencies{
		Stdout:  h.stdout,
		Stderr:  h.stderr,
		Stdin:   strings.NewReader(""),
		Env:     env.FromMap(base),
		WorkDir: t.TempDir(),
	})
	return h
}

func (h *harness) run(args ...string) error {
	root := newRootCommand(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.run("version"); err != nil {
		t.Fatalf("version error: %v", err)
	}
	if got := h.stdout.String(); got != "orbit "+Version+"\n" {
		t.Errorf("output = %q", got)
	}
	if h.app.Context() != nil {
		t.Error("version should not build a context")
	}
}

func TestEnvCommand_All(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	testutil.MustWriteFile(t, config.GlobalPath(h.home), []byte("[env]\nVENDOR_LIB = \"/opt/lib\"\n"), 0o644)

	if err := h.run("env"); err != nil {
		t.Fatalf("env error: %v", err)
	}

	out := h.stdout.String()
	for _, want := range []string{
		env.HomeKey + `="` + filepath.ToSlash(h.home) + `"`,
		env.BuildDirKey + `="target"`,
		`VENDOR_LIB="/opt/lib"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, env.IPPathKey) {
		t.Errorf("%s should be absent outside an IP:\n%s", env.IPPathKey, out)
	}
}

func TestEnvCommand_Keys(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.run("env", env.BuildDirKey, "ORBIT_NOT_A_KEY"); err != nil {
		t.Fatalf("env error: %v", err)
	}
	if got := h.stdout.String(); got != "target\n\n" {
		t.Errorf("output = %q, want %q", got, "target\n\n")
	}
}

func TestConfigListCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	testutil.MustWriteFile(t, config.GlobalPath(h.home), []byte("[general]\nlanguage-mode = \"vhdl\"\n"), 0o644)

	if err := h.run("config", "list"); err != nil {
		t.Fatalf("config list error: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"global", config.GlobalPath(h.home), `language-mode = "vhdl"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigListCommand_Effective(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.run("config", "list", "--effective"); err != nil {
		t.Fatalf("config list --effective error: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"[general]", "build-dir", "target", "mixed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_MalformedConfigFailsBeforeCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	testutil.MustWriteFile(t, config.GlobalPath(h.home), []byte("[general\n"), 0o644)

	err := h.run("env")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("expected ExitError with code 1, got: %v", err)
	}
	if !errors.Is(err, config.ErrMalformedDocument) {
		t.Errorf("expected ErrMalformedDocument in chain, got: %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("command should not run, stdout = %q", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), config.GlobalPath(h.home)) {
		t.Errorf("stderr should name the document:\n%s", h.stderr.String())
	}
}

func TestRoot_MissingOverrideFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{env.CacheKey: filepath.Join(t.TempDir(), "missing")})

	err := h.run("env")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("expected ExitError with code 1, got: %v", err)
	}
	if !strings.Contains(h.stderr.String(), env.CacheKey) {
		t.Errorf("stderr should name %s:\n%s", env.CacheKey, h.stderr.String())
	}
}

func TestRoot_VerboseFromConfig(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	testutil.MustWriteFile(t, config.GlobalPath(h.home), []byte("[general]\nverbose = true\n"), 0o644)

	if err := h.run("env"); err != nil {
		t.Fatalf("env error: %v", err)
	}
	if !h.app.verbose {
		t.Error("general.verbose should enable verbose output")
	}
}
