// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a snapshot of the requests made by a Client.
type Stats struct {
	Requests         uint64
	Failures         uint64
	CacheHits        uint64
	CloudflareHits   uint64
	CloudflareMisses uint64
	AverageMillis    float64
}

type status struct {
	requests         uint64
	failures         uint64
	cacheHits        uint64
	cloudflareHits   uint64
	cloudflareMisses uint64
	requestTimeTotal uint64
}

func (s *status) RequestComplete(res *http.Response, elapsed time.Duration) {
	atomic.AddUint64(&s.requestTimeTotal, uint64(elapsed.Milliseconds()))
	atomic.AddUint64(&s.requests, 1)

	if cacheHit := res.Header.Get("CF-Cache-Status"); cacheHit == "HIT" {
		atomic.AddUint64(&s.cloudflareHits, 1)
	} else {
		atomic.AddUint64(&s.cloudflareMisses, 1)
	}
}

func (s *status) RequestFailed() {
	atomic.AddUint64(&s.requests, 1)
	atomic.AddUint64(&s.failures, 1)
}

func (s *status) CacheHit() {
	atomic.AddUint64(&s.cacheHits, 1)
}

func (s *status) Snapshot() Stats {
	stats := Stats{
		Requests:         atomic.LoadUint64(&s.requests),
		Failures:         atomic.LoadUint64(&s.failures),
		CacheHits:        atomic.LoadUint64(&s.cacheHits),
		CloudflareHits:   atomic.LoadUint64(&s.cloudflareHits),
		CloudflareMisses: atomic.LoadUint64(&s.cloudflareMisses),
	}

	if completed := stats.Requests - stats.Failures; completed > 0 {
		stats.AverageMillis = float64(atomic.LoadUint64(&s.requestTimeTotal)) / float64(completed)
	}

	return stats
}

// Log writes the request summary at debug level.
func (s Stats) Log() {
	p := message.NewPrinter(language.English)
	log.Debug().Msgf("made %s range requests (%s failed). Average response time %.2f ms",
		p.Sprintf("%d", s.Requests), p.Sprintf("%d", s.Failures), s.AverageMillis)
	log.Debug().Msgf("cloudflare cache hits: %s, misses: %s. Local cache hits: %s",
		p.Sprintf("%d", s.CloudflareHits), p.Sprintf("%d", s.CloudflareMisses), p.Sprintf("%d", s.CacheHits))
}
