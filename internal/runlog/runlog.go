// Package runlog keeps an append-only CSV history of categorization runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp     time.Time
	RunID         string
	Input         string
	Format        string
	Rows          int
	Matched       int
	Uncategorized int
}

// Header is the CSV header for the run log.
const Header = "timestamp,run_id,input,format,rows,matched,uncategorized"

// DefaultPath is where the run log lives relative to the working directory.
const DefaultPath = "logs/run-log.csv"

const (
	numFields        = 7
	colTimestamp     = 0
	colRunID         = 1
	colInput         = 2
	colFormat        = 3
	colRows          = 4
	colMatched       = 5
	colUncategorized = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colInput] = e.Input
	row[colFormat] = e.Format
	row[colRows] = strconv.Itoa(e.Rows)
	row[colMatched] = strconv.Itoa(e.Matched)
	row[colUncategorized] = strconv.Itoa(e.Uncategorized)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 3)
	for i, col := range []int{colRows, colMatched, colUncategorized} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp:     ts,
		RunID:         record[colRunID],
		Input:         record[colInput],
		Format:        record[colFormat],
		Rows:          counts[0],
		Matched:       counts[1],
		Uncategorized: counts[2],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if
// needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// File records entries to a log file. It serializes concurrent writers
// within the process.
type File struct {
	Path string

	mu sync.Mutex
}

// Record appends one entry.
func (f *File) Record(e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Append(f.Path, []Entry{e})
}
