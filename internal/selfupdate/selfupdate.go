// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/cdotrus/orbit/pkg/platform"
)

type (
	// Updater drives the upgrade state machine for one running binary.
	Updater struct {
		client         *ReleaseClient
		currentVersion *semver.Version
		target         string
		logger         *log.Logger
		prompter       Prompter
	}

	// UpdaterOption configures an Updater during construction.
	UpdaterOption func(*Updater)
)

// WithReleaseClient overrides the default ReleaseClient used by the Updater.
func WithReleaseClient(c *ReleaseClient) UpdaterOption {
	return func(u *Updater) {
		u.client = c
	}
}

// WithLogger sets the logger receiving progress lines and stage transitions.
func WithLogger(l *log.Logger) UpdaterOption {
	return func(u *Updater) {
		u.logger = l
	}
}

// WithPrompter sets how a non-forced upgrade asks for confirmation.
func WithPrompter(p Prompter) UpdaterOption {
	return func(u *Updater) {
		u.prompter = p
	}
}

// WithTarget overrides the platform target, e.g. "x86_64-linux".
func WithTarget(target string) UpdaterOption {
	return func(u *Updater) {
		u.target = target
	}
}

// NewUpdater creates an Updater for the running binary's version. current is
// compiled into the binary and must be a valid version; NewUpdater panics
// otherwise.
func NewUpdater(current string, opts ...UpdaterOption) *Updater {
	v, err := ParseVersion(current)
	if err != nil {
		panic(fmt.Sprintf("selfupdate: running version: %v", err))
	}

	u := &Updater{
		currentVersion: v,
		target:         platform.HostTarget(),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = NewReleaseClient()
	}
	if u.logger == nil {
		u.logger = log.New(io.Discard)
	}
	if u.prompter == nil {
		u.prompter = PrompterFunc(func(string) (bool, error) { return false, nil })
	}
	return u
}

// CurrentVersion returns the version the Updater was created for.
func (u *Updater) CurrentVersion() *semver.Version { return u.currentVersion }

// Upgrade checks for a newer release and, when one exists and is confirmed
// (or force is set), installs it over the running executable. The previous
// binary is kept beside it as orbit-<current version>.
//
// "Already latest" and "cancelled" are reported through Result. Any failure
// is a *StageError naming the stage it occurred in; nothing in the
// executable's directory changes before StageRotatingBinary.
func (u *Updater) Upgrade(ctx context.Context, force bool) (*Result, error) {
	u.enter(StageCheckingVersion)
	u.logger.Info("checking for latest orbit binary...")

	latest, err := u.client.LatestVersion(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageCheckingVersion, Err: err}
	}

	res := &Result{Current: u.currentVersion, Latest: latest}
	if !latest.GreaterThan(u.currentVersion) {
		res.Outcome = OutcomeAlreadyLatest
		res.Message = fmt.Sprintf("the latest version is already installed (%s)", latest)
		return res, nil
	}

	if !force {
		ok, confirmErr := u.prompter.Confirm(fmt.Sprintf("a new version is available (%s), would you like to upgrade", latest))
		if confirmErr != nil {
			return nil, &StageError{Stage: StageCheckingVersion, Err: confirmErr}
		}
		if !ok {
			res.Outcome = OutcomeCancelled
			res.Message = "upgrade cancelled"
			return res, nil
		}
	}

	u.enter(StageFetchingChecksums)
	manifest, err := u.client.FetchChecksums(ctx, latest)
	if err != nil {
		return nil, &StageError{Stage: StageFetchingChecksums, Err: err}
	}
	archiveName := ArchiveName(latest, u.target)
	expected, err := FindChecksum(manifest, archiveName)
	if errors.Is(err, ErrAssetNotFound) {
		return nil, &StageError{Stage: StageFetchingChecksums, Err: &UnsupportedTargetError{Target: u.target}}
	}
	if err != nil {
		return nil, &StageError{Stage: StageFetchingChecksums, Err: err}
	}

	u.enter(StageFetchingPackage)
	u.logger.Info("downloading update...")
	archive, err := u.client.FetchArchive(ctx, latest, u.target)
	if err != nil {
		return nil, &StageError{Stage: StageFetchingPackage, Err: err}
	}

	u.enter(StageVerifyingIntegrity)
	if err := Verify(archiveName, archive, expected); err != nil {
		return nil, &StageError{Stage: StageVerifyingIntegrity, Err: err}
	}
	u.logger.Info("verified download")

	u.enter(StageExtracting)
	tmpDir, err := os.MkdirTemp("", "orbit-upgrade-*")
	if err != nil {
		return nil, &StageError{Stage: StageExtracting, Err: fmt.Errorf("creating temp dir: %w", err)}
	}
	defer func() { _ = os.RemoveAll(tmpDir) }() // best-effort temp cleanup

	if err := extractZip(archive, tmpDir); err != nil {
		return nil, &StageError{Stage: StageExtracting, Err: err}
	}

	u.enter(StageLocatingExecutable)
	newExe := packagedExecutablePath(tmpDir, latest, u.target, platform.ExecutableName(goos, "orbit"))
	if err := locateExecutable(newExe); err != nil {
		return nil, &StageError{Stage: StageLocatingExecutable, Err: err}
	}

	u.enter(StageRotatingBinary)
	u.logger.Info("installing update...")
	execPath, err := resolveExecPath()
	if err != nil {
		return nil, &StageError{Stage: StageRotatingBinary, Err: err}
	}
	execDir := filepath.Dir(execPath)
	removed, err := purgeStale(execDir, execPath)
	for _, p := range removed {
		u.logger.Debug("removed stale binary", "path", p)
	}
	if err != nil {
		return nil, &StageError{Stage: StageRotatingBinary, Err: err}
	}
	stalePath := filepath.Join(execDir, StaleName(u.currentVersion))

	u.enter(StageInstallingBinary)
	if err := swapBinary(execPath, stalePath, newExe); err != nil {
		return nil, &StageError{Stage: StageInstallingBinary, Err: err}
	}

	u.enter(StageDone)
	res.Outcome = OutcomeUpgraded
	res.StalePath = stalePath
	res.Message = fmt.Sprintf("successfully upgraded orbit to version %s", latest)
	return res, nil
}

func (u *Updater) enter(s Stage) {
	u.logger.Debug("upgrade stage", "stage", s)
}
