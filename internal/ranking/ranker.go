// Package ranking scores retrieved agencies against the query term and
// orders them into the final result list.
package ranking

import (
	"sort"

	"github.com/gcbaptista/agency-finder/internal/similarity"
	"github.com/gcbaptista/agency-finder/model"
)

const (
	// DefaultThreshold is the exclusive minimum score a candidate must exceed.
	DefaultThreshold = 0.3
	// DefaultLimit caps how many candidates are scored, matching the retrieval page size.
	DefaultLimit = 50
)

// Options controls a ranking pass.
type Options struct {
	Threshold float64 // Non-positive means DefaultThreshold; a zero threshold is never applied
	Limit     int     // Non-positive means DefaultLimit
}

// DefaultOptions returns the standard threshold and limit.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Limit: DefaultLimit}
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Rank scores at most opts.Limit candidates against term, drops every
// candidate scoring at or below opts.Threshold, and sorts the rest by score
// descending. Ties keep their input order. The result is never nil.
func Rank(candidates []model.Agency, term string, opts Options) []model.ScoredAgency {
	opts = opts.withDefaults()

	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	ranked := make([]model.ScoredAgency, 0, len(candidates))
	for _, candidate := range candidates {
		score := similarity.Score(term, candidate.ComparableText())
		if score <= opts.Threshold {
			continue
		}
		ranked = append(ranked, model.ScoredAgency{Agency: candidate, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopK truncates a ranked list to k entries. k <= 0 leaves it unchanged.
func TopK(ranked []model.ScoredAgency, k int) []model.ScoredAgency {
	if k <= 0 || len(ranked) <= k {
		return ranked
	}
	return ranked[:k]
}
