package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/encoding"
)

// Entry is one data row of a source export, before normalization.
type Entry struct {
	Line        int // 1-based line in the source file
	RawDate     string
	Description string
	Amount      decimal.Decimal // single-column profiles, already inverted if the profile says so
	Expense     decimal.Decimal // split-column profiles
	Credit      decimal.Decimal // split-column profiles
}

// Statement is a parsed source export.
type Statement struct {
	Name    string // base name of the file
	Profile Profile
	Entries []Entry
}

// Reader parses source exports.
type Reader struct {
	log zerolog.Logger
}

// NewReader creates a Reader that reports coerced cells to log.
func NewReader(log zerolog.Logger) *Reader {
	return &Reader{log: log}
}

// ReadFile matches path to a profile and parses it.
// Returns an error wrapping ErrUnmatchedSource when no profile matches.
func (r *Reader) ReadFile(path string) (*Statement, error) {
	profile, err := MatchProfile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return r.Parse(profile, filepath.Base(path), f)
}

// Parse reads an export laid out according to profile.
// Rows with the wrong number of fields are an error; fully blank rows are dropped.
func (r *Reader) Parse(profile Profile, name string, in io.Reader) (*Statement, error) {
	utf8r, err := encoding.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	br := bufio.NewReader(utf8r)
	if err := skipLines(br, profile.SkipRows); err != nil {
		return nil, fmt.Errorf("skipping preamble of %s: %w", name, err)
	}

	cr := csv.NewReader(br)
	cr.Comma = profile.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	cols := make([]string, len(profile.Columns))
	for i, c := range profile.Columns {
		cols[i] = strings.TrimSpace(c)
	}

	stmt := &Statement{Name: name, Profile: profile}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s CSV: %w", name, err)
		}

		line, _ := cr.FieldPos(0)
		line += profile.SkipRows

		if blank(rec) {
			continue
		}
		if len(rec) != len(cols) {
			return nil, fmt.Errorf("reading %s CSV: row %d: expected %d fields, got %d", name, line, len(cols), len(rec))
		}

		stmt.Entries = append(stmt.Entries, r.entry(profile, cols, rec, name, line))
	}
	return stmt, nil
}

func (r *Reader) entry(profile Profile, cols, rec []string, name string, line int) Entry {
	e := Entry{Line: line}
	for i, col := range cols {
		cell := strings.TrimSpace(rec[i])
		switch col {
		case ColDate:
			e.RawDate = cell
		case ColDescription:
			e.Description = cell
		case ColAmount:
			e.Amount = r.amount(cell, col, name, line)
			if profile.Invert {
				e.Amount = e.Amount.Neg()
			}
		case ColExpense:
			e.Expense = r.amount(cell, col, name, line)
		case ColCredit:
			e.Credit = r.amount(cell, col, name, line)
		}
	}
	return e
}

func (r *Reader) amount(cell, col, name string, line int) decimal.Decimal {
	d, ok := CleanAmount(cell)
	if !ok {
		r.log.Warn().
			Str("file", name).
			Int("line", line).
			Str("column", col).
			Str("value", cell).
			Msg("non-numeric amount, using 0")
	}
	return d
}

func skipLines(br *bufio.Reader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	return nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
