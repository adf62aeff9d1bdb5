package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rules is the classification config: ordered category and person rules.
// Order follows the YAML file and decides which rule wins.
type Rules struct {
	Categories []CategoryRule
	Persons    []PersonRule
}

// CategoryRule assigns Name when any keyword occurs in a description match key.
type CategoryRule struct {
	Name     string
	Keywords []string
}

// PersonRule assigns Name by keyword, optionally restricted to listed amounts.
type PersonRule struct {
	Name     string
	Keywords []string
	Amounts  map[string][]decimal.Decimal // keyword -> allowed amounts; absent means any amount
}

// LoadRules reads a category mappings YAML file from disk.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes a category mappings document.
func ParseRules(data []byte) (*Rules, error) {
	var doc struct {
		Category yaml.Node `yaml:"category"`
		Person   yaml.Node `yaml:"person"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Category.Kind == 0 {
		return nil, fmt.Errorf("missing %q section", "category")
	}
	if doc.Person.Kind == 0 {
		return nil, fmt.Errorf("missing %q section", "person")
	}

	var rules Rules

	err := eachPair(&doc.Category, func(name string, value *yaml.Node) error {
		var keywords []string
		if err := value.Decode(&keywords); err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
		rules.Categories = append(rules.Categories, CategoryRule{Name: name, Keywords: keywords})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&doc.Person, func(name string, value *yaml.Node) error {
		rule, err := decodePerson(name, value)
		if err != nil {
			return fmt.Errorf("person %s: %w", name, err)
		}
		rules.Persons = append(rules.Persons, rule)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &rules, nil
}

func decodePerson(name string, value *yaml.Node) (PersonRule, error) {
	var raw struct {
		Keywords []string  `yaml:"keywords"`
		Amounts  yaml.Node `yaml:"amounts"`
	}
	if err := value.Decode(&raw); err != nil {
		return PersonRule{}, err
	}

	rule := PersonRule{Name: name, Keywords: raw.Keywords}
	if raw.Amounts.Kind == 0 {
		return rule, nil
	}

	rule.Amounts = make(map[string][]decimal.Decimal)
	err := eachPair(&raw.Amounts, func(keyword string, list *yaml.Node) error {
		if list.Kind != yaml.SequenceNode {
			return fmt.Errorf("amounts for %q: expected a list", keyword)
		}
		for _, item := range list.Content {
			d, err := decimal.NewFromString(item.Value)
			if err != nil {
				return fmt.Errorf("amounts for %q: parsing %q: %w", keyword, item.Value, err)
			}
			rule.Amounts[keyword] = append(rule.Amounts[keyword], d)
		}
		return nil
	})
	return rule, err
}

// eachPair walks a mapping node in document order. A null node has no pairs.
func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// StarterRules is written by "tally init".
const StarterRules = `# Categories are tried top to bottom; the first keyword found in the
# description (lowercased, spaces replaced by "-") wins.
category:
  insurance:
    - alayacare-insurance
  groceries:
    - grocery
  subscriptions:
    - netflix

# Persons are tried top to bottom; unmatched rows go to "Both".
# "all_<institution>" claims every row from files of that institution.
person:
  alex:
    keywords:
      - all_bmo
  sam:
    keywords:
      - netflix
    amounts:
      netflix:
        - 16.99
`
