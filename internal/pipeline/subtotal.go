package pipeline

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// InsertSubtotals stable-sorts txns by source file name and appends one
// subtotal row after the last row of each file's group.
func InsertSubtotals(txns []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return strings.Compare(a.SourceFile, b.SourceFile)
	})

	out := make([]model.Transaction, 0, len(sorted)+len(sorted)/4+1)
	for start := 0; start < len(sorted); {
		group := sorted[start].SourceFile
		end := start + 1
		for end < len(sorted) && sorted[end].SourceFile == group {
			end++
		}

		sum := decimal.Zero
		for _, t := range sorted[start:end] {
			sum = sum.Add(t.Amount)
		}

		out = append(out, sorted[start:end]...)
		out = append(out, Subtotal(group, sum))
		start = end
	}
	return out
}

// Subtotal builds the synthetic row closing a source file's group.
func Subtotal(group string, sum decimal.Decimal) model.Transaction {
	return model.Transaction{
		Description: model.SubtotalPrefix + " " + group,
		Amount:      sum.Round(2),
		Subtotal:    true,
	}
}
