package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// notApplicable is what some exports print in an empty expense or credit cell.
const notApplicable = "Not applicable"

var amountNoise = strings.NewReplacer("$", "", ",", "", `"`, "", " ", "")

// CleanAmount coerces an export cell to a decimal.
// "$1,234.56" -> 1234.56. Empty and "Not applicable" cells are zero. ok is
// false only when the cell held text that is not a number; the value is then zero.
func CleanAmount(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, notApplicable) {
		return decimal.Zero, true
	}

	d, err := decimal.NewFromString(amountNoise.Replace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
