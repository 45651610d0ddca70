// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alvinbaena/pwned-check/internal/session"
	"github.com/alvinbaena/pwned-check/internal/util"
	"github.com/alvinbaena/pwned-check/pkg/hibp"
	"github.com/alvinbaena/pwned-check/pkg/strength"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [PASSWORD]",
		Short: "Check how many times a password appears in the Pwned Passwords breaches",
		Args: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return interactiveCommand()
			}

			return checkCommand(cmd, args[0])
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	checkCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string.")
	checkCmd.Flags().BoolVar(&showStrength, "strength", false, "Also print the strength estimation of the password. Ignored for hashed passwords.")
	checkCmd.Flags().StringArrayVarP(&userInputs, "user-input", "u", nil, "Words that make the password weaker if present, like a user name or email. Can be repeated.")

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, input string) error {
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

	count, err := client.CheckDigest(cmd.Context(), digest)
	if err != nil {
		return err
	}
	client.Stats().Log()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, count)
	if showStrength && !hashed {
		printReport(out, strength.Estimate(input, userInputs))
	}

	return nil
}

func processInput(input string) (hibp.Digest, error) {
	if hashed {
		return hibp.ParseDigest(input)
	}

	return hibp.NewDigest(input), nil
}

// digestChecker looks up the input as typed when it is already a SHA1 hash.
type digestChecker struct {
	client *hibp.Client
}

func (d digestChecker) Check(ctx context.Context, input string) (uint64, error) {
	digest, err := hibp.ParseDigest(input)
	if err != nil {
		return 0, err
	}

	return d.client.CheckDigest(ctx, digest)
}

func interactiveCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	client, cleanup, err := newClient(true)
	if err != nil {
		return err
	}
	defer cleanup()

	var checker session.Checker = client
	label := "Password"
	if hashed {
		checker = digestChecker{client: client}
		label = "SHA1 Hex hash"
		log.Info().Msgf("Flag 'hashed' is set. Please use SHA1 Hashed passwords.")
	}

	s, err := session.New(checker,
		session.WithUserInputs(userInputs),
		session.WithUpdates(func(snap session.Snapshot) {
			if snap.Breach.Err != nil {
				log.Error().Err(snap.Breach.Err).Msg("Error during check")
				return
			}

			if snap.Breach.Count > 0 {
				log.Warn().Msgf("Password is pwned. %s", snap.Breach)
			} else {
				log.Info().Msgf("Password is not pwned")
			}
		}),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a valid password")
			}

			if hashed {
				if _, err := hibp.ParseDigest(input); err != nil {
					return err
				}
			}
			return nil
		},
	}
	if !hashed {
		prompt.Mask = '*'
	}

	log.Info().Msgf("Running interactive session. ^C to exit")
	if err = runInteractiveSession(prompt, s); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			log.Info().Msgf("Goodbye")
		} else {
			log.Error().Err(err).Msgf("Error during interactive session")
		}
	}

	client.Stats().Log()
	// No error to avoid the default cobra error message
	return nil
}

func runInteractiveSession(prompt promptui.Prompt, s *session.Session) error {
	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		submitPassword(s, result, os.Stdout)
	}
}

// submitPassword prints the strength of the input and starts its lookup
// without waiting for it. The result is logged by the session update when it
// arrives; a password entered meanwhile supersedes it.
func submitPassword(s *session.Session, input string, out io.Writer) {
	snap := s.SetPassword(input)
	if !hashed {
		printReport(out, snap.Strength)
	}

	if _, err := s.Check(); err != nil {
		log.Error().Err(err).Msg("Error starting check")
	}
}
