package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/model"
)

// Row is one statement entry moving through normalization.
type Row struct {
	Entry importer.Entry
	Date  time.Time
	Net   decimal.Decimal
}

// RowsOf starts normalization for every entry of stmt.
func RowsOf(stmt *importer.Statement) []Row {
	rows := make([]Row, len(stmt.Entries))
	for i, e := range stmt.Entries {
		rows[i] = Row{Entry: e}
	}
	return rows
}

// Project reduces rows to the canonical columns and tags them with source.
func Project(rows []Row, source string) []model.Transaction {
	txns := make([]model.Transaction, len(rows))
	for i, r := range rows {
		txns[i] = model.Transaction{
			Date:        r.Date,
			Description: r.Entry.Description,
			Amount:      r.Net,
			SourceFile:  source,
		}
	}
	return txns
}
