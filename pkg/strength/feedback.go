// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	suggestionWords      = "Use a few words, avoid common phrases"
	suggestionNoSymbols  = "No need for symbols, digits, or uppercase letters"
	suggestionAnotherOne = "Add another word or two. Uncommon words are better."

	suggestionSubstitutions = "Predictable substitutions like '@' instead of 'a' don't help very much"
)

// segment is the part of a zxcvbn match the feedback needs. token is the
// text as typed.
type segment struct {
	pattern    string
	dictionary string
	token      string
	l33t       bool
}

// feedback picks a warning and suggestions from the longest weak segment.
// Scores above 2 are considered good enough and get none.
func feedback(empty bool, score int, sequence []segment) (string, []string) {
	if empty {
		return "", []string{suggestionWords, suggestionNoSymbols}
	}

	if score > 2 {
		return "", []string{}
	}

	var longest *segment
	for i := range sequence {
		if sequence[i].pattern == "bruteforce" {
			continue
		}
		if longest == nil || utf8.RuneCountInString(sequence[i].token) > utf8.RuneCountInString(longest.token) {
			longest = &sequence[i]
		}
	}

	suggestions := []string{suggestionAnotherOne}
	if longest == nil {
		return "", suggestions
	}

	warning, extra := segmentFeedback(*longest, len(sequence) == 1)
	return warning, append(suggestions, extra...)
}

func segmentFeedback(s segment, soleMatch bool) (string, []string) {
	switch strings.ToLower(s.pattern) {
	case "dictionary":
		return dictionaryFeedback(s, soleMatch)
	case "spatial":
		return "Short keyboard patterns are easy to guess",
			[]string{"Use a longer keyboard pattern with more turns"}
	case "repeat":
		if isSingleCharRepeat(s.token) {
			return `Repeats like "aaa" are easy to guess`,
				[]string{"Avoid repeated words and characters"}
		}
		return `Repeats like "abcabcabc" are only slightly harder to guess than "abc"`,
			[]string{"Avoid repeated words and characters"}
	case "sequence":
		return "Sequences like abc or 6543 are easy to guess",
			[]string{"Avoid sequences"}
	case "date":
		return "Dates are often easy to guess",
			[]string{"Avoid dates and years that are associated with you"}
	}

	return "", nil
}

func dictionaryFeedback(s segment, soleMatch bool) (string, []string) {
	var warning string
	dict := strings.ToLower(s.dictionary)
	switch {
	case strings.Contains(dict, "password"):
		if soleMatch {
			warning = "This is a very common password"
		} else {
			warning = "This is similar to a commonly used password"
		}
	case strings.Contains(dict, "english"):
		if soleMatch {
			warning = "A word by itself is easy to guess"
		}
	case strings.Contains(dict, "name"):
		if soleMatch {
			warning = "Names and surnames by themselves are easy to guess"
		} else {
			warning = "Common names and surnames are easy to guess"
		}
	case strings.Contains(dict, "user"):
		warning = "This password contains personal information"
	}

	var suggestions []string
	switch {
	case isAllUpper(s.token):
		suggestions = append(suggestions, "All-uppercase is almost as easy to guess as all-lowercase")
	case startsUpper(s.token):
		suggestions = append(suggestions, "Capitalization doesn't help very much")
	}

	if s.l33t {
		suggestions = append(suggestions, suggestionSubstitutions)
	}

	return warning, suggestions
}

func isSingleCharRepeat(token string) bool {
	first, size := utf8.DecodeRuneInString(token)
	if size == 0 {
		return false
	}
	return strings.Count(token, string(first)) == utf8.RuneCountInString(token)
}

func isAllUpper(token string) bool {
	letters := 0
	for _, r := range token {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

func startsUpper(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsUpper(r)
}
