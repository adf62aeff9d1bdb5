package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/model"
)

var minusOne = decimal.NewFromInt(-1)

// UnifyAmounts sets Net on every row so that positive means money spent.
//
// Bank accounts with split columns net to expense - credit (expense 50,
// credit 0 -> 50). Bank accounts with one signed column are negated. Credit
// card amounts were already inverted on read where the profile needs it.
func UnifyAmounts(rows []Row, profile importer.Profile) {
	for i := range rows {
		e := rows[i].Entry
		switch {
		case profile.FileType == model.FileTypeBankAccount && profile.Split():
			rows[i].Net = e.Expense.Sub(e.Credit)
		case profile.FileType == model.FileTypeBankAccount:
			rows[i].Net = e.Amount.Mul(minusOne)
		default:
			rows[i].Net = e.Amount
		}
	}
}
