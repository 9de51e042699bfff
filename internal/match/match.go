// Package match selects the closest gallery entry for a query embedding.
//
// Matching is an exact linear scan over the gallery. Galleries hold at most
// a few hundred embeddings, so no index or approximate search is used.
package match

import (
	"math"

	"github.com/kozaktomas/attendance/internal/gallery"
)

// DefaultTolerance is the largest distance accepted as a match. Larger
// values are more permissive.
const DefaultTolerance = 0.45

// Result describes the closest gallery entry for a query.
type Result struct {
	Label    string
	Distance float64
	Index    int
}

// Distance computes the Euclidean distance between two embeddings.
// Mismatched lengths yield +Inf so such pairs can never match.
func Distance(a, b gallery.Embedding) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Best scans the gallery for the entry closest to query. It returns false
// when the gallery is empty or the minimum distance is not strictly below
// tolerance. Ties keep the first occurrence in gallery order, so results
// are deterministic for a fixed gallery. Best is a pure function.
func Best(query gallery.Embedding, g *gallery.Gallery, tolerance float64) (Result, bool) {
	if g.Len() == 0 {
		return Result{}, false
	}

	best := Result{Index: -1, Distance: math.Inf(1)}
	for i, e := range g.Entries {
		if d := Distance(query, e.Embedding); d < best.Distance {
			best = Result{Label: e.Label, Distance: d, Index: i}
		}
	}

	if best.Index < 0 || best.Distance >= tolerance {
		return Result{}, false
	}
	return best, true
}
