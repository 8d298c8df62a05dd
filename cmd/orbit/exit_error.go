// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cdotrus/orbit/internal/config"
	"github.com/cdotrus/orbit/internal/issue"
	"github.com/cdotrus/orbit/internal/paths"
	"github.com/cdotrus/orbit/internal/selfupdate"
	"github.com/cdotrus/orbit/internal/workspace"
	"github.com/cdotrus/orbit/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps an error to its exit code and the issue catalog entry
// explaining it. The issue ID is zero when no entry applies.
func classifyError(err error) (types.ExitCode, issue.Id) {
	switch {
	case errors.Is(err, os.ErrPermission):
		return types.ExitFailure, issue.PermissionDeniedId
	case errors.Is(err, paths.ErrHomeUndetectable):
		return types.ExitFailure, issue.HomeUndetectableId
	case errors.Is(err, paths.ErrDirectoryNotFound):
		return types.ExitFailure, issue.DirectoryNotFoundId
	case errors.Is(err, config.ErrMalformedDocument), errors.Is(err, config.ErrInvalidConfig):
		return types.ExitFailure, issue.ConfigLoadFailedId
	case errors.Is(err, workspace.ErrNoWorkspace):
		return types.ExitFailure, issue.NoIPDetectedId
	case errors.Is(err, selfupdate.ErrUnsupportedTarget):
		return types.ExitFailure, issue.UnsupportedTargetId
	case errors.Is(err, selfupdate.ErrConnectionFailed):
		return types.ExitFault, issue.ConnectionFailedId
	case errors.Is(err, selfupdate.ErrChecksumMismatch):
		return types.ExitFault, issue.ChecksumMismatchId
	case errors.Is(err, selfupdate.ErrMissingExecutable):
		return types.ExitFault, issue.CorruptPackageId
	case errors.Is(err, selfupdate.ErrInvalidVersion), errors.Is(err, selfupdate.ErrMalformedChecksum),
		errors.Is(err, selfupdate.ErrResponseTooLarge):
		return types.ExitFault, 0
	default:
		return types.ExitFailure, 0
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes err and, when verbose, the matching issue guidance to
// w, and returns the ExitError the command should return.
func renderError(w io.Writer, logger *log.Logger, err error, verbose bool) *ExitError {
	code, id := classifyError(err)

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("error:"), formatErrorForDisplay(err, verbose))

	if verbose && id != 0 {
		if entry := issue.Get(id); entry != nil {
			rendered, renderErr := entry.Render("dark")
			if renderErr != nil {
				logger.Warn("failed to render issue catalog entry", "issueID", id, "err", renderErr)
			} else {
				fmt.Fprint(w, rendered)
			}
		}
	}

	return &ExitError{Code: code, Err: err}
}
