// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/pwned-check/pkg/strength"
	"github.com/spf13/cobra"
)

var (
	strengthCmd = &cobra.Command{
		Use:   "strength [PASSWORD]",
		Short: "Estimate the strength of a password. Nothing is sent over the network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printReport(cmd.OutOrStdout(), strength.Estimate(args[0], userInputs))
			return nil
		},
	}
)

func init() {
	strengthCmd.Flags().StringArrayVarP(&userInputs, "user-input", "u", nil, "Words that make the password weaker if present, like a user name or email. Can be repeated.")

	rootCmd.AddCommand(strengthCmd)
}
