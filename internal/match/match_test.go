package match

import (
	"math"
	"testing"

	"github.com/kozaktomas/attendance/internal/gallery"
)

// embedding builds a 128-dim vector with the first component set and the
// rest zero, so Euclidean distances are easy to reason about.
func embedding(first float32) gallery.Embedding {
	e := make(gallery.Embedding, gallery.Dim)
	e[0] = first
	return e
}

func testGallery() *gallery.Gallery {
	return &gallery.Gallery{Entries: []gallery.Entry{
		{Embedding: embedding(0), Label: "ALICE"},
		{Embedding: embedding(1), Label: "BOB"},
	}}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     gallery.Embedding
		expected float64
	}{
		{"identical", embedding(0.5), embedding(0.5), 0},
		{"single axis", embedding(0), embedding(0.3), 0.3},
		{"mismatched lengths", gallery.Embedding{1, 2}, embedding(0), math.Inf(1)},
		{"empty", gallery.Embedding{}, gallery.Embedding{}, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.IsInf(tt.expected, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("Distance = %v, want +Inf", got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("Distance = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBestEmptyGallery(t *testing.T) {
	if _, ok := Best(embedding(0), &gallery.Gallery{}, DefaultTolerance); ok {
		t.Error("empty gallery must never match")
	}
	if _, ok := Best(embedding(0), &gallery.Gallery{}, math.Inf(1)); ok {
		t.Error("empty gallery must never match regardless of tolerance")
	}
}

func TestBestSelectsClosest(t *testing.T) {
	res, ok := Best(embedding(0.2), testGallery(), DefaultTolerance)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.Label != "ALICE" || res.Index != 0 {
		t.Errorf("got %+v, want ALICE at index 0", res)
	}
	if math.Abs(res.Distance-0.2) > 1e-6 {
		t.Errorf("Distance = %v, want 0.2", res.Distance)
	}
}

func TestBestToleranceBoundary(t *testing.T) {
	g := testGallery()

	// Exactly at tolerance: strict less-than, so no match.
	if _, ok := Best(embedding(0.45), g, 0.45); ok {
		t.Error("distance equal to tolerance must be rejected")
	}

	// Just inside tolerance: match.
	res, ok := Best(embedding(0.45-1e-4), g, 0.45)
	if !ok || res.Label != "ALICE" {
		t.Errorf("distance below tolerance must match ALICE, got ok=%v res=%+v", ok, res)
	}
}

func TestBestTieKeepsFirstEntry(t *testing.T) {
	g := &gallery.Gallery{Entries: []gallery.Entry{
		{Embedding: embedding(0.1), Label: "FIRST"},
		{Embedding: embedding(0.1), Label: "SECOND"},
	}}

	res, ok := Best(embedding(0.1), g, DefaultTolerance)
	if !ok || res.Label != "FIRST" || res.Index != 0 {
		t.Errorf("tie must keep first occurrence, got ok=%v res=%+v", ok, res)
	}
}

func TestBestDeterministic(t *testing.T) {
	g := testGallery()
	q := embedding(0.3)

	first, ok := Best(q, g, DefaultTolerance)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		again, ok := Best(q, g, DefaultTolerance)
		if !ok || again != first {
			t.Fatalf("Best is not deterministic: %+v vs %+v", again, first)
		}
	}
}
