// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Stage identifies a state of the upgrade state machine.
const (
	StageCheckingVersion Stage = iota
	StageFetchingChecksums
	StageFetchingPackage
	StageVerifyingIntegrity
	StageExtracting
	StageLocatingExecutable
	StageRotatingBinary
	StageInstallingBinary
	StageDone
)

// Outcome identifies how a completed upgrade run ended.
const (
	OutcomeAlreadyLatest Outcome = iota
	OutcomeCancelled
	OutcomeUpgraded
)

// ErrUnsupportedTarget indicates no archive is published for the running platform.
var ErrUnsupportedTarget = errors.New("no package is published for this platform")

type (
	// Stage is a step of the upgrade pipeline. Stages run strictly in order.
	Stage int

	// Outcome is the non-error result of an upgrade run.
	Outcome int

	// Result describes a completed upgrade run.
	Result struct {
		Outcome Outcome
		Current *semver.Version
		Latest  *semver.Version
		// Message is the line shown to the user.
		Message string
		// StalePath is where the previous binary was preserved. Empty unless
		// Outcome is OutcomeUpgraded.
		StalePath string
	}

	// StageError records the stage an upgrade failure occurred in.
	StageError struct {
		Stage Stage
		Err   error
	}

	// UnsupportedTargetError names the platform missing from the checksum manifest.
	UnsupportedTargetError struct {
		Target string
	}
)

// String returns the stage name used in log output.
func (s Stage) String() string {
	switch s {
	case StageCheckingVersion:
		return "checking-version"
	case StageFetchingChecksums:
		return "fetching-checksums"
	case StageFetchingPackage:
		return "fetching-package"
	case StageVerifyingIntegrity:
		return "verifying-integrity"
	case StageExtracting:
		return "extracting"
	case StageLocatingExecutable:
		return "locating-executable"
	case StageRotatingBinary:
		return "rotating-binary"
	case StageInstallingBinary:
		return "installing-binary"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyLatest:
		return "already-latest"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeUpgraded:
		return "upgraded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrUnsupportedTarget, e.Target)
}

// Unwrap returns ErrUnsupportedTarget so callers can use errors.Is.
func (e *UnsupportedTargetError) Unwrap() error { return ErrUnsupportedTarget }
