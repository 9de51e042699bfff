package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := New(filepath.Join(t.TempDir(), "Attendance.csv"))
	l.now = func() time.Time {
		return time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)
	}
	if err := l.Ensure(); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	return l
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestEnsureIdempotent(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.Record("ALICE"); err != nil {
		t.Fatal(err)
	}
	// A second Ensure must not touch existing contents.
	if err := l.Ensure(); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}

	content := readFile(t, l.Path())
	if content != Header+"\nALICE,09:05:07,2024-03-15\n" {
		t.Errorf("unexpected file contents:\n%s", content)
	}
}

func TestRecordFormat(t *testing.T) {
	l := newTestLedger(t)

	added, err := l.Record("ALICE")
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Error("first Record should add a row")
	}

	lines := strings.Split(strings.TrimSpace(readFile(t, l.Path())), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[1] != "ALICE,09:05:07,2024-03-15" {
		t.Errorf("row = %q, want zero-padded 24h time and ISO date", lines[1])
	}
}

func TestRecordDedup(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.Record("ALICE"); err != nil {
		t.Fatal(err)
	}
	added, err := l.Record("ALICE")
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("second Record for the same name must be a no-op")
	}

	count := strings.Count(readFile(t, l.Path()), "ALICE")
	if count != 1 {
		t.Errorf("expected exactly one ALICE row, found %d", count)
	}
}

func TestRecordMultiplePeople(t *testing.T) {
	l := newTestLedger(t)

	for _, name := range []string{"ALICE", "BOB", "ALICE", "CAROL"} {
		if _, err := l.Record(name); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := l.Rows()
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, r := range rows {
		names = append(names, r.Name)
	}
	if !reflect.DeepEqual(names, []string{"ALICE", "BOB", "CAROL"}) {
		t.Errorf("names = %v, want [ALICE BOB CAROL]", names)
	}
}

func TestRows(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.Record("ALICE"); err != nil {
		t.Fatal(err)
	}

	rows, err := l.Rows()
	if err != nil {
		t.Fatal(err)
	}
	expected := []Row{{Name: "ALICE", Time: "09:05:07", Date: "2024-03-15"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Rows() = %+v, want %+v", rows, expected)
	}
}
