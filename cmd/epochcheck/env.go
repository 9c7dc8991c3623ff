// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
)

func newEnvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the effective solver environment as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.environment(cmd)
			if err != nil {
				return err
			}
			data, err := env.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}
