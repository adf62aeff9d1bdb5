package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func readFixture(t *testing.T, name string) *Statement {
	t.Helper()
	stmt, err := NewReader(zerolog.Nop()).ReadFile(filepath.Join("../../testdata/source_files", name))
	require.NoError(t, err)
	return stmt
}

func TestMatchProfile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"source_files/cibc.csv", "cibc"},
		{"source_files/CIBC_Dec.csv", "cibc"},
		{"bmo_chequing.csv", "bmo"},
		{"bmo_visa.csv", "bmo"},
		{"nbc-joint.csv", "nbc"},
		{"Amex_2023.csv", "amex"},
		{"visa.csv", "visa"},
	}
	for _, tt := range tests {
		p, err := MatchProfile(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, p.Key, "MatchProfile(%q)", tt.path)
	}
}

func TestMatchProfile_Unmatched(t *testing.T) {
	_, err := MatchProfile("statements/td_checking.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnmatchedSource)
	assert.Contains(t, err.Error(), "td_checking.csv")
}

func TestMatchProfile_IgnoresDirectory(t *testing.T) {
	_, err := MatchProfile("visa_exports/td.csv")
	assert.ErrorIs(t, err, ErrUnmatchedSource)
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, []string{"cibc", "bmo", "nbc", "amex", "visa"}, Keys())

	for _, p := range Profiles() {
		assert.NotEmpty(t, p.Columns, p.Key)
		assert.NotEmpty(t, p.Institution, p.Key)
		assert.Contains(t, p.Columns, ColDate, p.Key)
		assert.Contains(t, p.Columns, ColDescription, p.Key)
	}
}

func TestProfile_Split(t *testing.T) {
	split := map[string]bool{"cibc": true, "bmo": false, "nbc": true, "amex": false, "visa": false}
	for _, p := range Profiles() {
		assert.Equal(t, split[p.Key], p.Split(), p.Key)
	}
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"70.00", "70", true},
		{"$1,234.56", "1234.56", true},
		{`"2,500.00"`, "2500", true},
		{"-45.20", "-45.2", true},
		{"", "0", true},
		{"  ", "0", true},
		{"Not applicable", "0", true},
		{"nan", "0", false},
		{"n/a", "0", false},
	}
	for _, tt := range tests {
		got, ok := CleanAmount(tt.in)
		assert.Equal(t, tt.wantOK, ok, "CleanAmount(%q) ok", tt.in)
		assert.Equal(t, tt.want, got.String(), "CleanAmount(%q)", tt.in)
	}
}

func TestReadFile_CIBC(t *testing.T) {
	stmt := readFixture(t, "cibc.csv")
	assert.Equal(t, "cibc.csv", stmt.Name)
	assert.Equal(t, model.FileTypeBankAccount, stmt.Profile.FileType)
	require.Len(t, stmt.Entries, 3)

	first := stmt.Entries[0]
	assert.Equal(t, "2023-12-04", first.RawDate)
	assert.Equal(t, "ALAYACARE INSURANCE", first.Description)
	assert.Equal(t, "70.00", first.Expense.StringFixed(2))
	assert.True(t, first.Credit.IsZero())
	assert.Equal(t, 2, first.Line)

	assert.Equal(t, "2500.00", stmt.Entries[1].Credit.StringFixed(2))
	assert.True(t, stmt.Entries[2].Credit.IsZero(), "Not applicable is zero")
}

func TestReadFile_BMOSkipsPreamble(t *testing.T) {
	stmt := readFixture(t, "bmo_chequing.csv")
	assert.Equal(t, model.FileTypeBankAccount, stmt.Profile.FileType)
	require.Len(t, stmt.Entries, 3)

	assert.Equal(t, "20231205", stmt.Entries[0].RawDate)
	assert.Equal(t, "[PR]METRO GROCERY", stmt.Entries[0].Description)
	// bmo is not inverted on read; the amount unifier flips it.
	assert.Equal(t, "-45.20", stmt.Entries[0].Amount.StringFixed(2))
	assert.Equal(t, 7, stmt.Entries[0].Line)
}

func TestReadFile_NBCSemicolon(t *testing.T) {
	stmt := readFixture(t, "nbc.csv")
	require.Len(t, stmt.Entries, 2)
	assert.Equal(t, "BELL CANADA", stmt.Entries[0].Description)
	assert.Equal(t, "85.50", stmt.Entries[0].Expense.StringFixed(2))
	assert.Equal(t, "300.00", stmt.Entries[1].Credit.StringFixed(2))
}

func TestReadFile_AmexInverted(t *testing.T) {
	stmt := readFixture(t, "amex.csv")
	assert.Equal(t, model.FileTypeCreditCard, stmt.Profile.FileType)
	require.Len(t, stmt.Entries, 3)

	assert.Equal(t, "04-Dec-23", stmt.Entries[0].RawDate)
	assert.Equal(t, "25.00", stmt.Entries[0].Amount.StringFixed(2))
	assert.Equal(t, "-500.00", stmt.Entries[1].Amount.StringFixed(2))
	assert.Equal(t, 1, stmt.Entries[0].Line)
}

func TestReadFile_Visa(t *testing.T) {
	stmt := readFixture(t, "visa.csv")
	assert.Equal(t, model.FileTypeCreditCard, stmt.Profile.FileType)
	require.Len(t, stmt.Entries, 2)

	assert.Equal(t, "20231203", stmt.Entries[0].RawDate)
	assert.Equal(t, "COSTCO WHOLESALE", stmt.Entries[0].Description)
	assert.Equal(t, "54.30", stmt.Entries[0].Amount.StringFixed(2))
}

func TestReadFile_Unmatched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tangerine.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n"), 0o644))

	_, err := NewReader(zerolog.Nop()).ReadFile(path)
	assert.ErrorIs(t, err, ErrUnmatchedSource)
}

func TestParse_WrongFieldCount(t *testing.T) {
	p, err := MatchProfile("amex.csv")
	require.NoError(t, err)

	in := "04-Dec-23,AMAZON.CA,-25.00\n05-Dec-23,BROKEN ROW\n"
	_, err = NewReader(zerolog.Nop()).Parse(p, "amex.csv", strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading amex.csv CSV: row 2: expected 3 fields, got 2")
}

func TestParse_ShortDelimiterOnlyRowsDropped(t *testing.T) {
	tests := []struct {
		key string
		in  string
	}{
		{"cibc", "h\n2023-12-04,A,1.00,,5\n,\n"},
		{"nbc", "h\n2023-12-02;BELL CANADA;Utilities;85.50;0;900.00\n;;\n"},
	}
	for _, tt := range tests {
		p, err := MatchProfile(tt.key + ".csv")
		require.NoError(t, err)

		stmt, err := NewReader(zerolog.Nop()).Parse(p, tt.key+".csv", strings.NewReader(tt.in))
		require.NoError(t, err, tt.key)
		assert.Len(t, stmt.Entries, 1, tt.key)
	}
}

func TestParse_ShortRowWithDataFails(t *testing.T) {
	p, err := MatchProfile("cibc.csv")
	require.NoError(t, err)

	in := "h\n2023-12-04,A,1.00,,5\n2023-12-05,B\n"
	_, err = NewReader(zerolog.Nop()).Parse(p, "cibc.csv", strings.NewReader(in))
	assert.ErrorContains(t, err, "row 3: expected 5 fields, got 2")
}

func TestParse_DropsBlankRows(t *testing.T) {
	p, err := MatchProfile("amex.csv")
	require.NoError(t, err)

	in := "04-Dec-23,AMAZON.CA,-25.00\n,,\n\n05-Dec-23,UBER,-9.00\n"
	stmt, err := NewReader(zerolog.Nop()).Parse(p, "amex.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, stmt.Entries, 2)
}

func TestParse_NonNumericAmountIsZero(t *testing.T) {
	p, err := MatchProfile("cibc.csv")
	require.NoError(t, err)

	in := "header\n2023-12-04,MYSTERY,abc,,100.00\n"
	stmt, err := NewReader(zerolog.Nop()).Parse(p, "cibc.csv", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, stmt.Entries, 1)
	assert.True(t, stmt.Entries[0].Expense.IsZero())
}

func TestParse_Empty(t *testing.T) {
	p, err := MatchProfile("visa.csv")
	require.NoError(t, err)

	stmt, err := NewReader(zerolog.Nop()).Parse(p, "visa.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, stmt.Entries)
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visa.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "amex.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old.csv"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "amex.csv", files[0].Name)
	assert.Equal(t, "visa.csv", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "amex.csv"), files[0].Path)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
