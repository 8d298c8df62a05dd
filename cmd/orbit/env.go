// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newEnvCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "env [KEY...]",
		Short: "Print orbit environment information",
		Long: `Print orbit environment information.

Without arguments every resolved ORBIT_* variable and every entry of the
[env] configuration table is printed in dotenv form. With arguments only
the value of each named variable is printed, one per line.`,
		Example: `  orbit env
  orbit env ORBIT_CACHE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars := envVars(a)

			if len(args) == 0 {
				out, err := godotenv.Marshal(vars)
				if err != nil {
					return renderError(cmd.ErrOrStderr(), a.logger, err, a.verbose)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}

			for _, key := range args {
				value, ok := vars[key]
				if !ok {
					value = a.env.Get(key)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
			}
			return nil
		},
	}
}

// envVars returns the [env] table with every resolved ORBIT_* value on top.
func envVars(a *App) map[string]string {
	vars := make(map[string]string)
	maps.Copy(vars, a.ctx.Config().Env)
	maps.Copy(vars, a.ctx.Env().Recorded())
	return vars
}
