// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/pwned-check/internal/config"
	"github.com/alvinbaena/pwned-check/pkg/hibp"
	"github.com/rs/zerolog/log"
)

// newClient builds the range API client from the environment. The cache is
// only used by long-running commands.
func newClient(withCache bool) (*hibp.Client, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	opts := cfg.ClientOptions()
	cleanup := func() {}
	if withCache && cfg.CacheSize > 0 {
		cache, err := hibp.NewRangeCache(cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}

		log.Info().Msgf("caching up to %d bytes of range responses for %v", cfg.CacheSize, cfg.CacheTTL)
		opts = append(opts, hibp.WithCache(cache))
		cleanup = cache.Close
	}

	log.Debug().Msgf("using range API at %s", cfg.ApiUrl)
	return hibp.NewClient(opts...), cleanup, nil
}
