package pipeline

import (
	"fmt"
	"time"
)

// DateLayout is the canonical output form of a transaction date.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order against a whole date column:
// "04-Dec-23", "20231205", "12/04/2023", "2023-12-04".
var dateLayouts = []string{"2-Jan-06", "20060102", "1/2/2006", "2006-1-2"}

// Window is an inclusive statement period.
type Window struct {
	From time.Time
	To   time.Time
}

// MonthWindow returns the window covering one calendar month.
func MonthWindow(year int, month time.Month) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(0, 1, -1)}
}

// ParseWindow builds a window from two YYYY-MM-DD strings.
func ParseWindow(from, to string) (Window, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return Window{}, fmt.Errorf("parsing window start %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return Window{}, fmt.Errorf("parsing window end %q: %w", to, err)
	}
	if t.Before(f) {
		return Window{}, fmt.Errorf("window end %s is before start %s", to, from)
	}
	return Window{From: f, To: t}, nil
}

// ParseMonth builds the window for a YYYY-MM string.
func ParseMonth(s string) (Window, error) {
	m, err := time.Parse("2006-01", s)
	if err != nil {
		return Window{}, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return MonthWindow(m.Year(), m.Month()), nil
}

// Contains reports whether d falls inside the window. Zero dates never do.
func (w Window) Contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(w.From) && !d.After(w.To)
}

func (w Window) String() string {
	return w.From.Format(DateLayout) + ".." + w.To.Format(DateLayout)
}

// ParseDates parses a date column with a single layout.
//
// The first layout that parses every non-empty value is used. Failing that,
// the layout parsing the most values is used and the others stay zero. The
// chosen layout is returned, or "" when nothing parsed.
func ParseDates(raw []string) ([]time.Time, string) {
	dates := make([]time.Time, len(raw))

	nonEmpty := 0
	for _, s := range raw {
		if s != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return dates, ""
	}

	best, bestCount := "", 0
	for _, layout := range dateLayouts {
		n := countParsed(raw, layout)
		if n == nonEmpty {
			best = layout
			break
		}
		if n > bestCount {
			best, bestCount = layout, n
		}
	}
	if best == "" {
		return dates, ""
	}

	for i, s := range raw {
		if d, err := time.Parse(best, s); err == nil {
			dates[i] = d
		}
	}
	return dates, best
}

func countParsed(raw []string, layout string) int {
	n := 0
	for _, s := range raw {
		if s == "" {
			continue
		}
		if _, err := time.Parse(layout, s); err == nil {
			n++
		}
	}
	return n
}

// NormalizeDates sets Date on every row and, when window is non-nil, keeps only
// rows dated inside it. Rows whose date did not parse are dropped by a window.
func NormalizeDates(rows []Row, window *Window) ([]Row, string) {
	raw := make([]string, len(rows))
	for i, r := range rows {
		raw[i] = r.Entry.RawDate
	}

	dates, layout := ParseDates(raw)
	for i := range rows {
		rows[i].Date = dates[i]
	}
	if window == nil {
		return rows, layout
	}

	kept := rows[:0]
	for _, r := range rows {
		if window.Contains(r.Date) {
			kept = append(kept, r)
		}
	}
	return kept, layout
}
