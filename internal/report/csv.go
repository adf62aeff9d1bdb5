package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header of a summary file.
const Header = "Transaction Date,Description,Trans Amount,file_name,Category,Type,Person"

// Summary file names inside the destination directory.
const (
	CreditCardFile  = "credit_card_results.csv"
	BankAccountFile = "bank_account_results.csv"
)

const (
	numFields   = 7
	dateFormat  = "2006-01-02"
	colDate     = 0
	colDesc     = 1
	colAmount   = 2
	colFile     = 3
	colCategory = 4
	colType     = 5
	colPerson   = 6
)

// WriteTransactions writes a summary (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and writes a summary to it.
func WriteFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txns); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadTransactions reads a summary written by WriteTransactions.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading summary CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// ReadFile reads a summary from path.
func ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ReadTransactions(f)
}

// MarshalTransaction converts a Transaction to a CSV row.
// Unparsed dates are written empty.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	if t.HasDate() {
		row[colDate] = t.Date.Format(dateFormat)
	}
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colFile] = t.SourceFile
	row[colCategory] = t.Category
	row[colType] = string(t.Type)
	row[colPerson] = t.Person
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var date time.Time
	if record[colDate] != "" {
		d, err := time.Parse(dateFormat, record[colDate])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
		date = d
	}

	amount := decimal.Zero
	if record[colAmount] != "" {
		a, err := decimal.NewFromString(record[colAmount])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
		}
		amount = a
	}

	return model.Transaction{
		Date:        date,
		Description: record[colDesc],
		Amount:      amount,
		SourceFile:  record[colFile],
		Category:    record[colCategory],
		Type:        model.TxnType(record[colType]),
		Person:      record[colPerson],
		Subtotal:    record[colFile] == "" && strings.HasPrefix(record[colDesc], model.SubtotalPrefix+" "),
	}, nil
}
