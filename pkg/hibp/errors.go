// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// NetworkError is returned when the range request could not complete: DNS,
// connection, TLS, timeouts and context cancellation.
type NetworkError struct {
	Prefix string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("request for range %s timed out: %s", e.Prefix, e.Err)
	}
	return fmt.Sprintf("request for range %s failed: %s", e.Prefix, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request was abandoned because a deadline passed.
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	if errors.As(e.Err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// StatusError is a non-success response from the range API.
type StatusError struct {
	Prefix     string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request for range %s failed with status [%d] %s", e.Prefix, e.StatusCode, e.Status)
}

// ParseError is a range response line that is not SUFFIX:COUNT.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed range response at line %d (%q): %s", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
