// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type rangeServer struct {
	*httptest.Server
	requests uint64
	lastPath atomic.Value
	headers  atomic.Value
}

func newRangeServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *rangeServer {
	s := &rangeServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&s.requests, 1)
		s.lastPath.Store(r.URL.Path)
		s.headers.Store(r.Header.Clone())
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *rangeServer) Requests() uint64 {
	return atomic.LoadUint64(&s.requests)
}

func bodyHandler(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("CF-Cache-Status", "HIT")
		_, _ = fmt.Fprint(w, body)
	}
}

func TestClient_Check(t *testing.T) {
	srv := newRangeServer(t, bodyHandler("003D68EB55068C33ACE09247EE4C639306B:3\r\n"+passwordSuffix+":42\r\n"))
	client := NewClient(WithBaseURL(srv.URL), WithUserAgent("pwned-check-test"))

	count, err := client.Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if count != 42 {
		t.Errorf("Check: %d, want: 42", count)
	}

	if path := srv.lastPath.Load().(string); path != "/range/5BAA6" {
		t.Errorf("Request path: %s, want: /range/5BAA6", path)
	}

	headers := srv.headers.Load().(http.Header)
	if ua := headers.Get("User-Agent"); ua != "pwned-check-test" {
		t.Errorf("User-Agent: %s", ua)
	}
	if padding := headers.Get("Add-Padding"); padding != "" {
		t.Errorf("Padding should not be requested by default: %s", padding)
	}

	if srv.Requests() != 1 {
		t.Errorf("Check should make exactly one request, made %d", srv.Requests())
	}

	stats := client.Stats()
	if stats.Requests != 1 || stats.CloudflareHits != 1 || stats.Failures != 0 {
		t.Errorf("Stats: %+v", stats)
	}
}

func TestClient_CheckNotFound(t *testing.T) {
	srv := newRangeServer(t, bodyHandler("003D68EB55068C33ACE09247EE4C639306B:3\r\n"))
	client := NewClient(WithBaseURL(srv.URL), WithPadding(true))

	count, err := client.Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if count != 0 {
		t.Errorf("Check: %d, want: 0", count)
	}

	headers := srv.headers.Load().(http.Header)
	if padding := headers.Get("Add-Padding"); padding != "true" {
		t.Errorf("Add-Padding: %q, want: true", padding)
	}
}

func TestClient_CheckDigest(t *testing.T) {
	srv := newRangeServer(t, bodyHandler(passwordSuffix+":5\n"))
	client := NewClient(WithBaseURL(srv.URL))

	d, err := ParseDigest("5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	count, err := client.CheckDigest(context.Background(), d)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if count != 5 {
		t.Errorf("CheckDigest: %d, want: 5", count)
	}

	for _, invalid := range []Digest{
		"5BAA6",
		"ZZZZZ61E4C9B93F3F0682250B6CF8331B7EE68FD",
		"5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8A",
	} {
		if _, err = client.CheckDigest(context.Background(), invalid); err == nil {
			t.Errorf("Invalid digest %s should fail", invalid)
		}
	}
	if srv.Requests() != 1 {
		t.Errorf("Invalid digest should not make a request, requests: %d", srv.Requests())
	}

	// A lowercase value is normalized before the prefix is sent.
	count, err = client.CheckDigest(context.Background(), Digest("5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8"))
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if count != 5 {
		t.Errorf("CheckDigest of lowercase digest: %d, want: 5", count)
	}
	if path := srv.lastPath.Load().(string); path != "/range/5BAA6" {
		t.Errorf("Request path: %s, want: /range/5BAA6", path)
	}
}

func TestClient_StatusError(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := newRangeServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})
		client := NewClient(WithBaseURL(srv.URL))

		count, err := client.Check(context.Background(), "password")
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("Status %d should fail with a StatusError, got: %v", code, err)
		}
		if se.StatusCode != code {
			t.Errorf("StatusError code: %d, want: %d", se.StatusCode, code)
		}
		if count != 0 {
			t.Errorf("Failed check should not return a count: %d", count)
		}
		if srv.Requests() != 1 {
			t.Errorf("Status %d should not be retried by default, made %d requests", code, srv.Requests())
		}
	}
}

func TestClient_Retry(t *testing.T) {
	var calls uint64
	srv := newRangeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddUint64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, passwordSuffix+":3\n")
	})
	client := NewClient(WithBaseURL(srv.URL), WithRetryMax(2))
	client.http.RetryWaitMin = time.Millisecond
	client.http.RetryWaitMax = time.Millisecond

	count, err := client.Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if count != 3 {
		t.Errorf("Check: %d, want: 3", count)
	}
	if srv.Requests() != 2 {
		t.Errorf("Should retry once, made %d requests", srv.Requests())
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(url))
	count, err := client.Check(context.Background(), "password")

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Closed server should fail with a NetworkError, got: %v", err)
	}
	if ne.Prefix != "5BAA6" {
		t.Errorf("NetworkError prefix: %s", ne.Prefix)
	}
	if count != 0 {
		t.Errorf("Failed check should not return a count: %d", count)
	}
	if client.Stats().Failures != 1 {
		t.Errorf("Failure should be counted: %+v", client.Stats())
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newRangeServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := client.Check(context.Background(), "password")

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Slow server should fail with a NetworkError, got: %v", err)
	}
	if !ne.Timeout() {
		t.Errorf("NetworkError should be a timeout: %s", err)
	}
}

func TestClient_Canceled(t *testing.T) {
	srv := newRangeServer(t, bodyHandler(passwordSuffix+":1\n"))
	client := NewClient(WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Check(ctx, "password")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Canceled context should fail with context.Canceled, got: %v", err)
	}
}

func TestClient_ParseError(t *testing.T) {
	srv := newRangeServer(t, bodyHandler("<html>maintenance</html>\n"))
	client := NewClient(WithBaseURL(srv.URL))

	count, err := client.Check(context.Background(), "password")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Should fail with a ParseError, got: %v", err)
	}
	if count != 0 {
		t.Errorf("Failed check should not return a count: %d", count)
	}
}

func TestClient_Range(t *testing.T) {
	srv := newRangeServer(t, bodyHandler("003D68EB55068C33ACE09247EE4C639306B:3\n"+passwordSuffix+":42\n"))
	client := NewClient(WithBaseURL(srv.URL))

	entries, err := client.Range(context.Background(), "5baa6")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if len(entries) != 2 {
		t.Errorf("Range should have 2 entries, has %d", len(entries))
	}
	if path := srv.lastPath.Load().(string); path != "/range/5BAA6" {
		t.Errorf("Request path: %s, want: /range/5BAA6", path)
	}

	if _, err = client.Range(context.Background(), "5BAA"); err == nil {
		t.Errorf("Short prefix should fail")
	}
}

func TestClient_Cache(t *testing.T) {
	srv := newRangeServer(t, bodyHandler(passwordSuffix+":42\n"))
	cache, err := NewRangeCache(1<<20, time.Minute)
	if err != nil {
		t.Fatalf("Should not fail creating the cache: %s", err)
	}
	t.Cleanup(cache.Close)

	client := NewClient(WithBaseURL(srv.URL), WithCache(cache))
	for i := 0; i < 3; i++ {
		count, err := client.Check(context.Background(), "password")
		if err != nil {
			t.Fatalf("Should not fail: %s", err)
		}
		if count != 42 {
			t.Errorf("Check: %d, want: 42", count)
		}
		cache.Wait()
	}

	if srv.Requests() != 1 {
		t.Errorf("Cached prefix should be requested once, was requested %d times", srv.Requests())
	}
	if client.Stats().CacheHits != 2 {
		t.Errorf("Cache hits: %d, want: 2", client.Stats().CacheHits)
	}
}
