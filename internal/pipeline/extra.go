package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// The insurance premium is withdrawn outside the CIBC export, so every bank
// account summary gets it added by hand.
const (
	extraDescription = "Alayacare-insurance"
	extraSource      = "cibc.csv"
)

var extraAmount = decimal.New(7000, -2)

// ExtraTransaction returns the manual insurance row dated the first day of the
// month before now.
func ExtraTransaction(now time.Time) model.Transaction {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return model.Transaction{
		Date:        first,
		Description: extraDescription,
		Amount:      extraAmount,
		SourceFile:  extraSource,
	}
}
