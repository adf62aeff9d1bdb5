package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Canonical column names shared by the profiles.
const (
	ColDate        = "Transaction Date"
	ColDescription = "Description"
	ColAmount      = "Trans Amount"
	ColExpense     = "Expense"
	ColCredit      = "Credit"
)

// ErrUnmatchedSource is returned when no profile key occurs in a file name.
var ErrUnmatchedSource = errors.New("no institution profile matches source file")

// Profile describes how one institution lays out its CSV export.
type Profile struct {
	Key         string // substring searched for in the lowercased file name
	Institution string
	Columns     []string // assigned positionally, the file's own header is skipped
	SkipRows    int
	Delimiter   rune
	Invert      bool // negate the amount column on read
	FileType    model.FileType
}

// Split reports whether the profile carries separate expense and credit columns.
func (p Profile) Split() bool {
	return p.index(ColExpense) >= 0 && p.index(ColCredit) >= 0
}

func (p Profile) index(col string) int {
	for i, c := range p.Columns {
		if strings.TrimSpace(c) == col {
			return i
		}
	}
	return -1
}

// profiles is in match priority order. "bmo_visa.csv" therefore routes to bmo.
var profiles = []Profile{
	{
		Key:         "cibc",
		Institution: "CIBC",
		Columns:     []string{ColDate, ColDescription, ColExpense, ColCredit, "Balance"},
		SkipRows:    1,
		Delimiter:   ',',
		FileType:    model.FileTypeBankAccount,
	},
	{
		Key:         "bmo",
		Institution: "BMO",
		Columns:     []string{"First Bank Card", "Transaction Type", ColDate, ColAmount, ColDescription},
		SkipRows:    6,
		Delimiter:   ',',
		FileType:    model.FileTypeBankAccount,
	},
	{
		Key:         "nbc",
		Institution: "National Bank of Canada",
		Columns:     []string{ColDate, ColDescription, "Category", ColExpense, ColCredit, "Balance"},
		SkipRows:    1,
		Delimiter:   ';',
		FileType:    model.FileTypeBankAccount,
	},
	{
		Key:         "amex",
		Institution: "Scotiabank Amex",
		Columns:     []string{ColDate, ColDescription, ColAmount},
		Delimiter:   ',',
		Invert:      true,
		FileType:    model.FileTypeCreditCard,
	},
	{
		Key:         "visa",
		Institution: "BMO Visa",
		Columns:     []string{"Item #", "Card #", ColDate, "Posting Date", ColAmount, ColDescription},
		SkipRows:    3,
		Delimiter:   ',',
		FileType:    model.FileTypeCreditCard,
	},
}

// Profiles returns the built-in profiles in match priority order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Keys returns the profile keys in match priority order.
func Keys() []string {
	keys := make([]string, len(profiles))
	for i, p := range profiles {
		keys[i] = p.Key
	}
	return keys
}

// MatchProfile returns the first profile whose key occurs in the lowercased base name of path.
func MatchProfile(path string) (Profile, error) {
	name := strings.ToLower(filepath.Base(path))
	for _, p := range profiles {
		if strings.Contains(name, p.Key) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s (expected one of %s)", ErrUnmatchedSource, filepath.Base(path), strings.Join(Keys(), ", "))
}
