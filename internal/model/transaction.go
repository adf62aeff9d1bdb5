package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FileType is the coarse kind of account a source export belongs to.
type FileType string

const (
	FileTypeBankAccount FileType = "bank_account"
	FileTypeCreditCard  FileType = "credit_card"
)

// TxnType is the direction of money for a classified transaction.
type TxnType string

const (
	TypeExpense TxnType = "Expense"
	TypeCredit  TxnType = "Credit"
)

// SubtotalPrefix starts the description of every synthesized subtotal row.
const SubtotalPrefix = "Subtotal"

// Transaction is one row of a consolidated summary.
type Transaction struct {
	Date        time.Time       // zero when the source value could not be parsed
	Description string
	Amount      decimal.Decimal // positive = expense, negative or zero = credit
	SourceFile  string          // base name of the export; empty on subtotal rows
	Category    string
	Type        TxnType
	Person      string
	Subtotal    bool
}

// HasDate reports whether the transaction carries a parsed date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// MatchKey returns the description lowercased with spaces replaced by hyphens.
// "Alayacare Insurance" -> "alayacare-insurance"
func (t Transaction) MatchKey() string {
	return strings.ReplaceAll(strings.ToLower(t.Description), " ", "-")
}
