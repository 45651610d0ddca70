// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"github.com/jfcg/sorty/v2"
)

// BucketStats describes the k-anonymity set a prefix belongs to.
type BucketStats struct {
	Prefix      string
	Entries     int
	Padding     int
	Occurrences uint64
	Max         uint64
	Median      uint64
}

// Summarize computes the statistics of a parsed range. Entries with a count of
// 0 are padding added by the API and are not part of the real set.
func Summarize(prefix string, entries []Entry) BucketStats {
	stats := BucketStats{Prefix: prefix}

	counts := make([]uint64, 0, len(entries))
	for _, e := range entries {
		if e.Count == 0 {
			stats.Padding++
			continue
		}

		counts = append(counts, e.Count)
		stats.Occurrences += e.Count
	}
	stats.Entries = len(counts)

	if len(counts) == 0 {
		return stats
	}

	sorty.SortSlice(counts)
	stats.Max = counts[len(counts)-1]

	mid := len(counts) / 2
	if len(counts)%2 == 0 {
		stats.Median = (counts[mid-1] + counts[mid]) / 2
	} else {
		stats.Median = counts[mid]
	}

	return stats
}
