package ranking

import (
	"sort"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// Rank returns a copy of derived, stably sorted by the directive, with Rank
// reassigned 1..N. Records equal on the sort field keep their input order.
// An infinite risk-to-cost ratio compares greater than any finite one, so it
// lands last ascending and first descending.
//
// The input slice is left untouched.
func Rank(derived []scoring.DerivedRecord, directive SortDirective) ([]scoring.DerivedRecord, error) {
	info, ok := fields[directive.Field]
	if !ok {
		return nil, &UnknownSortFieldError{Field: directive.Field.String()}
	}

	out := make([]scoring.DerivedRecord, len(derived))
	for i, d := range derived {
		out[i] = d
		out[i].PlatformCounts = cloneCounts(d.PlatformCounts)
	}

	desc := directive.Direction == Descending
	sort.SliceStable(out, func(i, j int) bool {
		a, b := info.value(&out[i]), info.value(&out[j])
		if desc {
			return a > b
		}
		return a < b
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Page returns the 1-based page of ranked records. A page past the end is
// empty; size <= 0 returns everything.
func Page(ranked []scoring.DerivedRecord, page, size int) []scoring.DerivedRecord {
	if size <= 0 {
		return ranked
	}
	if page < 1 {
		page = 1
	}
	if len(ranked) == 0 || page-1 >= PageCount(len(ranked), size) {
		return []scoring.DerivedRecord{}
	}
	start := (page - 1) * size
	if size >= len(ranked)-start {
		return ranked[start:]
	}
	return ranked[start : start+size]
}

// PageCount is the number of pages needed to show n records.
func PageCount(n, size int) int {
	if size <= 0 || n == 0 {
		return 1
	}
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

func cloneCounts(in map[scoring.Platform]int) map[scoring.Platform]int {
	if in == nil {
		return nil
	}
	out := make(map[scoring.Platform]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
