// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alvinbaena/pwned-check/pkg/hibp"
	"github.com/alvinbaena/pwned-check/pkg/strength"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printReport(w io.Writer, r strength.Report) {
	warning := r.Warning
	if warning == "" {
		warning = "No reason provided"
	}

	_, _ = fmt.Fprintf(w, "Score: %d/%d %s\n", r.Score, strength.MaxScore, scoreBar(r.Score))
	_, _ = fmt.Fprintf(w, "Crack time: %s\n", r.CrackTimeDisplay)
	_, _ = fmt.Fprintf(w, "Reason: %s\n", warning)
	if len(r.Suggestions) > 0 {
		_, _ = fmt.Fprintln(w, "Suggestions:")
		for _, s := range r.Suggestions {
			_, _ = fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}

func scoreBar(score int) string {
	return "[" + strings.Repeat("#", score) + strings.Repeat("-", strength.MaxScore-score) + "]"
}

func printBucket(w io.Writer, stats hibp.BucketStats, found uint64) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Prefix:      %s\n", stats.Prefix)
	_, _ = p.Fprintf(w, "Hashes:      %d\n", stats.Entries)
	_, _ = p.Fprintf(w, "Padding:     %d\n", stats.Padding)
	_, _ = p.Fprintf(w, "Occurrences: %d\n", stats.Occurrences)
	_, _ = p.Fprintf(w, "Max:         %d\n", stats.Max)
	_, _ = p.Fprintf(w, "Median:      %d\n", stats.Median)
	if found > 0 {
		_, _ = p.Fprintf(w, "Password:    found %d times\n", found)
	} else {
		_, _ = p.Fprintf(w, "Password:    not found\n")
	}
}
