// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

const (
	// PrefixLen is the number of hash characters sent to the range API.
	PrefixLen = 5
	// SuffixLen is the number of hash characters compared locally.
	SuffixLen = digestLen - PrefixLen

	digestLen = sha1.Size * 2
)

var (
	sha1HexRegex   = regexp.MustCompile("^[a-fA-F\\d]{40}$")
	prefixHexRegex = regexp.MustCompile("^[A-F\\d]{5}$")
)

// Digest is the uppercase hexadecimal SHA1 of a password.
type Digest string

// NewDigest hashes the raw bytes of the password.
func NewDigest(password string) Digest {
	h := sha1.New()
	h.Write([]byte(password))
	return Digest(strings.ToUpper(hex.EncodeToString(h.Sum(nil))))
}

// ParseDigest accepts an already hashed password in any case.
func ParseDigest(hash string) (Digest, error) {
	if !sha1HexRegex.MatchString(hash) {
		return "", errors.New("input is not a valid SHA1 Hexadecimal hash")
	}

	return Digest(strings.ToUpper(hash)), nil
}

// Prefix is the k-anonymity part of the hash, the only one that leaves the process.
func (d Digest) Prefix() string {
	return string(d[:PrefixLen])
}

func (d Digest) Suffix() string {
	return string(d[PrefixLen:])
}

func (d Digest) String() string {
	return string(d)
}

func validPrefix(prefix string) bool {
	return prefixHexRegex.MatchString(prefix)
}
