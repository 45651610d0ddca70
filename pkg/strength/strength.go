// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package strength estimates password strength with zxcvbn and explains weak
// scores with a warning and suggestions.
package strength

import (
	"strings"

	"github.com/nbutton23/zxcvbn-go"
)

// MaxScore is the best score zxcvbn gives.
const MaxScore = 4

type Report struct {
	Score            int      `json:"score"`
	Entropy          float64  `json:"entropy"`
	CrackTime        float64  `json:"crackTime"`
	CrackTimeDisplay string   `json:"crackTimeDisplay"`
	Warning          string   `json:"warning,omitempty"`
	Suggestions      []string `json:"suggestions"`
}

// Estimate scores the password. userInputs are extra words that make the
// password weaker when present, like the user name or the site name.
func Estimate(password string, userInputs []string) Report {
	if len(password) == 0 {
		_, suggestions := feedback(true, 0, nil)
		return Report{CrackTimeDisplay: "instant", Suggestions: suggestions}
	}

	entropy := zxcvbn.PasswordStrength(password, userInputs)

	runes := []rune(password)
	sequence := make([]segment, 0, len(entropy.MatchSequence))
	for _, m := range entropy.MatchSequence {
		seg := segment{
			pattern:    m.Pattern,
			dictionary: m.DictionaryName,
			token:      m.Token,
		}
		// Match indexes are runes of the password. l33t matches carry the
		// token after substitution, so it differs from what was typed.
		if m.I >= 0 && m.I <= m.J && m.J < len(runes) {
			typed := string(runes[m.I : m.J+1])
			seg.l33t = m.Pattern == "dictionary" && !strings.EqualFold(typed, m.Token)
			seg.token = typed
		}
		sequence = append(sequence, seg)
	}

	warning, suggestions := feedback(false, entropy.Score, sequence)
	return Report{
		Score:            entropy.Score,
		Entropy:          entropy.Entropy,
		CrackTime:        entropy.CrackTime,
		CrackTimeDisplay: entropy.CrackTimeDisplay,
		Warning:          warning,
		Suggestions:      suggestions,
	}
}
