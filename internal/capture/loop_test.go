package capture

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/kozaktomas/attendance/internal/gallery"
	"github.com/kozaktomas/attendance/internal/ledger"
	"github.com/kozaktomas/attendance/internal/vision"
)

type fakeRecorder struct {
	calls []string
}

func (r *fakeRecorder) Record(name string) (bool, error) {
	r.calls = append(r.calls, name)
	return true, nil
}

func embedding(first float32) gallery.Embedding {
	e := make(gallery.Embedding, gallery.Dim)
	e[0] = first
	return e
}

func testGallery() *gallery.Gallery {
	return &gallery.Gallery{Entries: []gallery.Entry{
		{Embedding: embedding(0), Label: "Alice"},
		{Embedding: embedding(1), Label: "Bob"},
	}}
}

func newTestLoop(rec Recorder) *Loop {
	return NewLoop(nil, nil, nil, testGallery(), rec, Config{
		Tolerance: 0.45,
		Downscale: 0.25,
		Cooldown:  5 * time.Second,
	})
}

func TestRescaleBox(t *testing.T) {
	tests := []struct {
		name     string
		box      image.Rectangle
		factor   float64
		expected image.Rectangle
	}{
		{"quarter scale", image.Rect(10, 20, 30, 40), 0.25, image.Rect(40, 80, 120, 160)},
		{"half scale", image.Rect(5, 5, 15, 25), 0.5, image.Rect(10, 10, 30, 50)},
		{"identity", image.Rect(1, 2, 3, 4), 1, image.Rect(1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rescaleBox(tt.box, tt.factor); got != tt.expected {
				t.Errorf("rescaleBox(%v, %v) = %v, want %v", tt.box, tt.factor, got, tt.expected)
			}
		})
	}
}

func TestAnnotateMatchesAndRescales(t *testing.T) {
	rec := &fakeRecorder{}
	l := newTestLoop(rec)

	detections := []vision.Detection{
		{Box: image.Rect(10, 10, 20, 20), Embedding: embedding(0.2)},  // Alice at distance 0.2
		{Box: image.Rect(30, 30, 40, 40), Embedding: embedding(-5.0)}, // nobody close
	}

	annotations := l.annotate(detections)
	if len(annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(annotations))
	}

	if !annotations[0].Known || annotations[0].Label != "Alice" {
		t.Errorf("first annotation = %+v, want known Alice", annotations[0])
	}
	if annotations[0].Box != image.Rect(40, 40, 80, 80) {
		t.Errorf("box not rescaled to original frame: %v", annotations[0].Box)
	}

	if annotations[1].Known || annotations[1].Label != UnknownLabel {
		t.Errorf("second annotation = %+v, want UNKNOWN", annotations[1])
	}

	// Only the known face is recorded, upper-cased.
	if len(rec.calls) != 1 || rec.calls[0] != "ALICE" {
		t.Errorf("recorder calls = %v, want [ALICE]", rec.calls)
	}
}

func TestCooldownSuppressesRepeats(t *testing.T) {
	rec := &fakeRecorder{}
	l := newTestLoop(rec)

	t0 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	now := t0
	l.now = func() time.Time { return now }

	l.markAttendance("Alice")
	if len(rec.calls) != 1 {
		t.Fatalf("first sighting must record, calls = %v", rec.calls)
	}

	// Within the 5s cooldown: suppressed.
	now = t0.Add(4 * time.Second)
	l.markAttendance("Alice")
	if len(rec.calls) != 1 {
		t.Errorf("sighting at t0+4s must be suppressed, calls = %v", rec.calls)
	}

	// Past the cooldown: recorded again and the timestamp moves forward.
	now = t0.Add(6 * time.Second)
	l.markAttendance("Alice")
	if len(rec.calls) != 2 {
		t.Errorf("sighting at t0+6s must record, calls = %v", rec.calls)
	}
	if !l.seen["Alice"].Equal(t0.Add(6 * time.Second)) {
		t.Errorf("timestamp not updated, seen = %v", l.seen["Alice"])
	}
}

func TestCooldownIsPerLabel(t *testing.T) {
	rec := &fakeRecorder{}
	l := newTestLoop(rec)

	t0 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return t0 }

	l.markAttendance("Alice")
	l.markAttendance("Bob")
	if len(rec.calls) != 2 {
		t.Errorf("different labels must not share a cooldown, calls = %v", rec.calls)
	}
}

func TestAttendanceScenario(t *testing.T) {
	// Two enrolled people, a real ledger, and two sightings of the same
	// face one second apart: one row, written once.
	led := ledger.New(filepath.Join(t.TempDir(), "Attendance.csv"))
	if err := led.Ensure(); err != nil {
		t.Fatal(err)
	}

	l := NewLoop(nil, nil, nil, testGallery(), led, Config{
		Tolerance: 0.45,
		Downscale: 0.25,
		Cooldown:  5 * time.Second,
	})

	t0 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	now := t0
	l.now = func() time.Time { return now }

	sighting := []vision.Detection{{Box: image.Rect(0, 0, 10, 10), Embedding: embedding(0.2)}}

	l.annotate(sighting)
	now = t0.Add(1 * time.Second)
	l.annotate(sighting)

	rows, err := led.Rows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Name != "ALICE" {
		t.Errorf("expected exactly one ALICE row, got %+v", rows)
	}
}
