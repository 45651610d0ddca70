// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpproxy"
)

const (
	DefaultBaseURL   = "https://api.pwnedpasswords.com"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "pwned-check/1.0"
)

// Client queries the Pwned Passwords range API. Only the first 5 characters of
// the password hash are ever sent.
type Client struct {
	baseURL   string
	userAgent string
	padding   bool
	timeout   time.Duration
	retryMax  int
	cache     *RangeCache
	http      *retryablehttp.Client
	stat      *status
}

type Option func(*Client)

// WithBaseURL points the client to another range API, without the /range path.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryMax enables retries on connection errors and 5xx/429 responses.
// With the default of 0 each check makes exactly one request.
func WithRetryMax(retries int) Option {
	return func(c *Client) {
		c.retryMax = retries
	}
}

// WithPadding asks the API to pad responses with fake zero-count suffixes.
func WithPadding(padding bool) Option {
	return func(c *Client) {
		c.padding = padding
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithCache answers repeated prefixes from memory.
func WithCache(cache *RangeCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		stat:      &status{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http = initHttpClient(c.timeout, c.retryMax)
	return c
}

func initHttpClient(timeout time.Duration, retryMax int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{}
	client.RetryMax = retryMax
	client.RetryWaitMax = 5 * time.Second
	// Keep the last response so the caller can report its status instead of a
	// generic "giving up" error.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	proxy := httpproxy.FromEnvironment().ProxyFunc()
	client.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				return proxy(req.URL)
			},
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}

	return client
}

// Check returns how many times the password appears in the breach corpus.
// 0 means the hash was not in the returned range; every failure is an error.
func (c *Client) Check(ctx context.Context, password string) (uint64, error) {
	return c.CheckDigest(ctx, NewDigest(password))
}

// CheckDigest is Check for an already hashed password.
func (c *Client) CheckDigest(ctx context.Context, digest Digest) (uint64, error) {
	// Digest values built without ParseDigest may be in any case or not hex.
	digest, err := ParseDigest(string(digest))
	if err != nil {
		return 0, err
	}

	body, err := c.fetchRange(ctx, digest.Prefix())
	if err != nil {
		return 0, err
	}

	return FindCount(bytes.NewReader(body), digest.Suffix())
}

// Range downloads and parses the whole bucket of a prefix.
func (c *Client) Range(ctx context.Context, prefix string) ([]Entry, error) {
	prefix = strings.ToUpper(prefix)
	if !validPrefix(prefix) {
		return nil, fmt.Errorf("prefix %q is not 5 hexadecimal characters", prefix)
	}

	body, err := c.fetchRange(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return ParseRange(bytes.NewReader(body))
}

// Stats returns the request counters of this client.
func (c *Client) Stats() Stats {
	return c.stat.Snapshot()
}

func (c *Client) rangeHttpRequest(ctx context.Context, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/range/%s", c.baseURL, prefix),
		nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}
	return req, nil
}

func (c *Client) fetchRange(ctx context.Context, prefix string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(prefix); ok {
			log.Debug().Msgf("range %s served from cache", prefix)
			c.stat.CacheHit()
			return body, nil
		}
	}

	body, err := c.downloadRange(ctx, prefix)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(prefix, body)
	}
	return body, nil
}

func (c *Client) downloadRange(ctx context.Context, prefix string) ([]byte, error) {
	timer := time.Now()
	req, err := c.rangeHttpRequest(ctx, prefix)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		if res != nil {
			_ = res.Body.Close()
		}
		c.stat.RequestFailed()
		return nil, &NetworkError{Prefix: prefix, Err: err}
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for range %s", prefix)
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.stat.RequestFailed()
		return nil, &StatusError{Prefix: prefix, StatusCode: res.StatusCode, Status: http.StatusText(res.StatusCode)}
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		c.stat.RequestFailed()
		return nil, &NetworkError{Prefix: prefix, Err: err}
	}

	c.stat.RequestComplete(res, time.Since(timer))
	log.Debug().Msgf("range %s downloaded in %v (%d bytes)", prefix, time.Since(timer), len(resBody))
	return resBody, nil
}
