// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/pwned-check/internal/util"
	"github.com/alvinbaena/pwned-check/pkg/hibp"
	"github.com/spf13/cobra"
)

var (
	bucketCmd = &cobra.Command{
		Use:   "bucket [PASSWORD]",
		Short: "Show statistics of the range bucket a password falls into",
		Long: "Download the range bucket that shares the first 5 hash characters with the password and " +
			"print how many hashes it holds and how often they were seen.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bucketCommand(cmd, args[0])
		},
	}
)

func init() {
	bucketCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string.")

	rootCmd.AddCommand(bucketCmd)
}

func bucketCommand(cmd *cobra.Command, input string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	stats := util.Stats()
	defer stats()

	digest, err := processInput(input)
	if err != nil {
		return err
	}

	client, cleanup, err := newClient(false)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := client.Range(cmd.Context(), digest.Prefix())
	if err != nil {
		return err
	}
	client.Stats().Log()

	var found uint64
	for _, e := range entries {
		if e.Suffix == digest.Suffix() {
			found = e.Count
			break
		}
	}

	printBucket(cmd.OutOrStdout(), hibp.Summarize(digest.Prefix(), entries), found)
	return nil
}
