// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `orbit config` command tree.
func newConfigCommand(a *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect orbit configuration",
		Long: `Inspect orbit configuration.

Configuration is read from, in increasing precedence:
  - <orbit home>/config.toml
  - <ip root>/.orbit/config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every loaded configuration document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			effective, _ := cmd.Flags().GetBool("effective")
			out := cmd.OutOrStdout()

			if effective {
				data, err := toml.Marshal(a.ctx.Config())
				if err != nil {
					return renderError(cmd.ErrOrStderr(), a.logger, err, a.verbose)
				}
				fmt.Fprint(out, string(data))
				return nil
			}

			for i, doc := range a.ctx.AllConfigs() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("# "+doc.Locality.String()), PathStyle.Render(doc.Path))
				content := strings.TrimRight(string(doc.Content), "\n")
				if content != "" {
					fmt.Fprintln(out, content)
				}
			}
			return nil
		},
	}
	listCmd.Flags().Bool("effective", false, "print the merged configuration instead of each document")

	cfgCmd.AddCommand(listCmd)
	return cfgCmd
}
