// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cdotrus/orbit/internal/selfupdate"
)

// upgradeParams bundles the dependencies and flags for the upgrade command,
// enabling runUpgrade to be tested without a real Cobra command or live
// release endpoints.
type upgradeParams struct {
	stdout  io.Writer
	updater *selfupdate.Updater
	force   bool
}

func newUpgradeCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Update orbit to the latest release",
		Long: `Update orbit to the latest release.

The upgrade command compares the running version with the latest
published release. When a newer one exists it downloads the checksum
manifest and the archive for this platform, verifies the archive's
SHA-256 digest, and replaces the running binary.

The previous binary stays next to the new one as orbit-<version> and
is removed by the next upgrade.`,
		Example: `  # Upgrade after confirming
  orbit upgrade

  # Upgrade without asking
  orbit upgrade --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipContextAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			client := selfupdate.NewReleaseClient(a.releaseOpts...)
			in := cmd.InOrStdin()
			prompter := selfupdate.NewPrompter(in, cmd.OutOrStdout(), isInteractive(in))

			p := upgradeParams{
				stdout: cmd.OutOrStdout(),
				updater: selfupdate.NewUpdater(Version,
					selfupdate.WithReleaseClient(client),
					selfupdate.WithLogger(a.logger),
					selfupdate.WithPrompter(prompter),
				),
				force: force,
			}

			if err := runUpgrade(cmd.Context(), p); err != nil {
				return renderError(cmd.ErrOrStderr(), a.logger, err, a.verbose)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "upgrade without asking for confirmation")

	return cmd
}

// runUpgrade is the core upgrade logic, separated from Cobra for testability.
// "Already installed" and "cancelled" are reported on stdout, not as errors.
func runUpgrade(ctx context.Context, p upgradeParams) error {
	res, err := p.updater.Upgrade(ctx, p.force)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case selfupdate.OutcomeUpgraded:
		fmt.Fprintln(p.stdout, SuccessStyle.Render(res.Message))
		fmt.Fprintf(p.stdout, "previous version kept at %s\n", PathStyle.Render(res.StalePath))
	case selfupdate.OutcomeCancelled:
		fmt.Fprintln(p.stdout, WarningStyle.Render(res.Message))
	default:
		fmt.Fprintln(p.stdout, res.Message)
	}
	return nil
}

// isInteractive reports whether r is a terminal a person can answer from.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
