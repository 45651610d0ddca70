// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwned-check [COMMAND] [OPTIONS]",
		Short: "Check a password strength and whether it appears in the Pwned Passwords breaches",
		Long: "Estimate the strength of a password locally and check it against the Pwned Passwords " +
			"(haveibeenpwned.com) range API. Only the first 5 characters of the SHA1 hash of the password " +
			"are sent, the rest of the comparison happens on this machine.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
}

func Execute() error {
	return rootCmd.Execute()
}
