// Package classify assigns category, type and person labels to transactions
// from ordered keyword rules. The first matching rule wins.
package classify

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/model"
)

const (
	// Uncategorized is the category of rows no category keyword matches.
	Uncategorized = "Uncategorized"
	// DefaultPerson is the person of rows no person rule claims.
	DefaultPerson = "Both"
	// institutionPrefix marks a person keyword that claims a whole institution, e.g. "all_bmo".
	institutionPrefix = "all_"
)

// Classifier labels transactions according to a rules config.
type Classifier struct {
	rules *config.Rules
}

// New creates a Classifier. rules is read-only from here on.
func New(rules *config.Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns t with Category, Type and Person set.
// Subtotal rows are never keyword-matched: they get Uncategorized and Both.
func (c *Classifier) Classify(t model.Transaction) model.Transaction {
	t.Type = TypeOf(t.Amount)
	if t.Subtotal {
		t.Category = Uncategorized
		t.Person = DefaultPerson
		return t
	}
	t.Category = c.Category(t.MatchKey())
	t.Person = c.Person(t)
	return t
}

// ClassifyAll classifies every transaction in place.
func (c *Classifier) ClassifyAll(txns []model.Transaction) {
	for i := range txns {
		txns[i] = c.Classify(txns[i])
	}
}

// Category returns the first category with a keyword contained in key.
func (c *Classifier) Category(key string) string {
	for _, rule := range c.rules.Categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(key, kw) {
				return capitalize(rule.Name)
			}
		}
	}
	return Uncategorized
}

// TypeOf is Credit when the amount truncated to an integer is <= 0, Expense otherwise.
func TypeOf(amount decimal.Decimal) model.TxnType {
	if amount.Truncate(0).Sign() <= 0 {
		return model.TypeCredit
	}
	return model.TypeExpense
}

// Person returns the first person whose rule claims t.
//
// A rule claims t when one of its "all_<institution>" keywords names an
// institution found in t's source file name, or when one of its other keywords
// occurs in t's match key and, if amounts are listed for that keyword, t's
// amount is one of them.
func (c *Classifier) Person(t model.Transaction) string {
	key := t.MatchKey()
	source := strings.ToLower(t.SourceFile)

	for _, rule := range c.rules.Persons {
		if claimsInstitution(rule.Keywords, source) {
			return capitalize(rule.Name)
		}
		for _, kw := range rule.Keywords {
			if _, ok := institution(kw); ok {
				continue
			}
			if !strings.Contains(key, kw) {
				continue
			}
			allowed := rule.Amounts[kw]
			if len(allowed) == 0 || containsAmount(allowed, t.Amount) {
				return capitalize(rule.Name)
			}
		}
	}
	return DefaultPerson
}

func claimsInstitution(keywords []string, source string) bool {
	if source == "" {
		return false
	}
	for _, kw := range keywords {
		if inst, ok := institution(kw); ok && strings.Contains(source, inst) {
			return true
		}
	}
	return false
}

// institution returns the profile key named by an "all_<key>" keyword.
func institution(kw string) (string, bool) {
	key, ok := strings.CutPrefix(kw, institutionPrefix)
	if !ok || !slices.Contains(importer.Keys(), key) {
		return "", false
	}
	return key, true
}

func containsAmount(allowed []decimal.Decimal, amount decimal.Decimal) bool {
	for _, a := range allowed {
		if a.Equal(amount) {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first letter and lower-cases the rest: "INSURANCE" -> "Insurance".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
