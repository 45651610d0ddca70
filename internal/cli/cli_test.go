// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"

func upstream(t *testing.T, handler http.HandlerFunc) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("PWNED_API_URL", srv.URL)
}

func rangeBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/range/5BAA6" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, body)
	}
}

func execute(args ...string) (string, error) {
	interactive = false
	hashed = false
	showStrength = false
	userInputs = nil

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	upstream(t, rangeBody("003D68EB55068C33ACE09247EE4C639306B:3\r\n"+passwordSuffix+":42\r\n"))

	out, err := execute("check", "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if out != "42\n" {
		t.Errorf("Output: %q", out)
	}
}

func TestCheckCommand_Strength(t *testing.T) {
	upstream(t, rangeBody(passwordSuffix+":42\r\n"))

	out, err := execute("check", "--strength", "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if !strings.HasPrefix(out, "42\n") || !strings.Contains(out, "Score: 0/4") {
		t.Errorf("Output: %q", out)
	}
}

func TestCheckCommand_NotFound(t *testing.T) {
	upstream(t, rangeBody("003D68EB55068C33ACE09247EE4C639306B:3\r\n"))

	out, err := execute("check", "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if out != "0\n" {
		t.Errorf("Output: %q", out)
	}
}

func TestCheckCommand_Hashed(t *testing.T) {
	upstream(t, rangeBody(passwordSuffix+":42\r\n"))

	out, err := execute("check", "-s", "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if out != "42\n" {
		t.Errorf("Output: %q", out)
	}

	if _, err = execute("check", "-s", "password"); err == nil {
		t.Errorf("Invalid hash should fail")
	}
}

func TestCheckCommand_Errors(t *testing.T) {
	upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := execute("check", "password"); err == nil {
		t.Errorf("Upstream failure should fail the command")
	}

	if _, err := execute("check"); err == nil {
		t.Errorf("Missing password should fail the command")
	}
}

func TestStrengthCommand(t *testing.T) {
	out, err := execute("strength", "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if !strings.Contains(out, "Score: 0/4 [----]") || !strings.Contains(out, "Suggestions:") {
		t.Errorf("Output: %q", out)
	}
}

func TestBucketCommand(t *testing.T) {
	upstream(t, rangeBody(
		"003D68EB55068C33ACE09247EE4C639306B:3\r\n"+
			passwordSuffix+":42\r\n"+
			"00A1B2C3D4E5F60718293A4B5C6D7E8F901:0\r\n"+
			"012C192B2F16F82EA0EB9EF18D9D539B0DD:1\r\n"))

	out, err := execute("bucket", "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	for _, want := range []string{
		"Prefix:      5BAA6",
		"Hashes:      3",
		"Padding:     1",
		"Occurrences: 46",
		"Max:         42",
		"Median:      3",
		"Password:    found 42 times",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output should contain %q: %s", want, out)
		}
	}
}
