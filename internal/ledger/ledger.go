// Package ledger keeps the attendance file: a small UTF-8 CSV-like file
// with a fixed header and one row per person per file lifetime. Names are
// assumed comma-free, so rows are written verbatim without quoting.
package ledger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Header is the fixed first line of every ledger file.
const Header = "Name,Time,Date"

// Row is one parsed attendance record.
type Row struct {
	Name string `json:"name"`
	Time string `json:"time"`
	Date string `json:"date"`
}

// Ledger appends deduplicated attendance rows to a single file. It is
// append-mostly and expects exactly one writer process: every Record call
// opens the file, reads it fully, and closes it again, with no locking.
type Ledger struct {
	path string
	now  func() time.Time
}

// New creates a ledger backed by the file at path.
func New(path string) *Ledger {
	return &Ledger{path: path, now: time.Now}
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Ensure creates the ledger file with its header if it does not already
// exist. Calling it repeatedly never duplicates the header.
func (l *Ledger) Ensure() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}
	if err := os.WriteFile(l.path, []byte(Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("creating attendance file: %w", err)
	}
	return nil
}

// Record appends one row for name with the current wall-clock time, unless
// a row for name is already present. It reports whether a row was added.
// The dedup check is a full read of the file on every call, which is O(n)
// in ledger size and fine for the small files this produces.
func (l *Ledger) Record(name string) (bool, error) {
	f, err := os.OpenFile(l.path, os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening attendance file: %w", err)
	}
	defer f.Close()

	data, err := os.ReadFile(l.path)
	if err != nil {
		return false, fmt.Errorf("reading attendance file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		present, _, _ := strings.Cut(line, ",")
		if present == name {
			return false, nil
		}
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return false, fmt.Errorf("seeking attendance file: %w", err)
	}
	ts := l.now()
	row := fmt.Sprintf("%s,%s,%s\n", name, ts.Format("15:04:05"), ts.Format("2006-01-02"))
	if _, err := f.WriteString(row); err != nil {
		return false, fmt.Errorf("appending attendance row: %w", err)
	}
	fmt.Printf("[Attendance] Marked: %s\n", name)
	return true, nil
}

// Rows parses all attendance records currently in the file, skipping the
// header and blank lines.
func (l *Ledger) Rows() ([]Row, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading attendance file: %w", err)
	}

	var rows []Row
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || (i == 0 && line == Header) {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		row := Row{Name: parts[0]}
		if len(parts) > 1 {
			row.Time = parts[1]
		}
		if len(parts) > 2 {
			row.Date = parts[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
