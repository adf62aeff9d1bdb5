package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry records one pipeline run.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Files      int
	Skipped    []string // source files no profile matched
	BankRows   int
	CreditRows int
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,files,skipped,bank_rows,credit_rows"

// FileName is the run log's name inside the destination directory.
const FileName = "run-log.csv"

const (
	numFields     = 6
	colTimestamp  = 0
	colRunID      = 1
	colFiles      = 2
	colSkipped    = 3
	colBankRows   = 4
	colCreditRows = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFiles] = strconv.Itoa(e.Files)
	row[colSkipped] = strings.Join(e.Skipped, ";")
	row[colBankRows] = strconv.Itoa(e.BankRows)
	row[colCreditRows] = strconv.Itoa(e.CreditRows)
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

	counts := make([]int, 0, 3)
	for _, col := range []int{colFiles, colBankRows, colCreditRows} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts = append(counts, n)
	}

	var skipped []string
	if record[colSkipped] != "" {
		skipped = strings.Split(record[colSkipped], ";")
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Files:      counts[0],
		Skipped:    skipped,
		BankRows:   counts[1],
		CreditRows: counts[2],
	}, nil
}

// Append writes e to <dir>/run-log.csv, creating the file and header if needed.
func Append(dir string, e Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
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
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/run-log.csv, or nil if there is none.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
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
