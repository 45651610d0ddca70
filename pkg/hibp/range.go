// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Entry is a single SUFFIX:COUNT line of a range response.
type Entry struct {
	Suffix string
	Count  uint64
}

var errMissingSeparator = errors.New("missing ':' separator")

// scanRange calls fn for every well-formed line of the body until fn returns
// false. Blank lines are skipped and a trailing \r is removed.
func scanRange(r io.Reader, fn func(e Entry) bool) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if len(strings.TrimSpace(text)) == 0 {
			continue
		}

		entry, err := parseLine(text)
		if err != nil {
			return &ParseError{Line: line, Text: text, Err: err}
		}

		if !fn(entry) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return &ParseError{Line: line + 1, Err: err}
	}
	return nil
}

func parseLine(text string) (Entry, error) {
	suffix, _, found := strings.Cut(text, ":")
	if !found {
		return Entry{}, errMissingSeparator
	}
	if len(suffix) == 0 {
		return Entry{}, errors.New("empty hash suffix")
	}

	count, err := strconv.ParseUint(strings.TrimSpace(text[strings.LastIndex(text, ":")+1:]), 10, 64)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Suffix: suffix, Count: count}, nil
}

// FindCount returns the count of the first line whose suffix is exactly the
// given one. A well-formed body without that suffix, an empty one included,
// yields 0.
func FindCount(r io.Reader, suffix string) (uint64, error) {
	var count uint64
	err := scanRange(r, func(e Entry) bool {
		if e.Suffix == suffix {
			count = e.Count
			return false
		}
		return true
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ParseRange parses a whole range response.
func ParseRange(r io.Reader) ([]Entry, error) {
	entries := make([]Entry, 0, 1024)
	err := scanRange(r, func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
