package sensitivity

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is a sensitive-data classification category
type Category string

const (
	CategoryPII Category = "PII"
	CategoryPHI Category = "PHI"
	CategoryPCI Category = "PCI"
)

// NameRule flags Category when a lower-cased column name contains any keyword
type NameRule struct {
	Category Category
	Keywords []string
}

// ContentRule flags Category when any sampled value matches Pattern
type ContentRule struct {
	Category Category
	Name     string
	Pattern  *regexp.Regexp
}

// Rules is the ordered rule table consulted by the classifier
type Rules struct {
	NameRules    []NameRule
	ContentRules []ContentRule
}

// DefaultRules returns the built-in keyword and pattern rules
func DefaultRules() Rules {
	return Rules{
		NameRules: []NameRule{
			{Category: CategoryPII, Keywords: []string{
				"email", "phone", "ssn", "social", "passport", "license",
				"address", "name", "firstname", "lastname", "surname",
				"dob", "birthdate", "birth_date", "credit_card", "account",
			}},
			{Category: CategoryPHI, Keywords: []string{
				"medical", "health", "diagnosis", "treatment", "patient", "prescription",
			}},
			{Category: CategoryPCI, Keywords: []string{
				"card", "credit", "payment", "cvv", "expiry", "billing",
			}},
		},
		ContentRules: []ContentRule{
			{Category: CategoryPII, Name: "email", Pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
			{Category: CategoryPII, Name: "phone", Pattern: regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)},
			{Category: CategoryPII, Name: "ssn", Pattern: regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)},
		},
	}
}

// Extend appends the rules of other after r's own
func (r Rules) Extend(other Rules) Rules {
	return Rules{
		NameRules:    append(append([]NameRule(nil), r.NameRules...), other.NameRules...),
		ContentRules: append(append([]ContentRule(nil), r.ContentRules...), other.ContentRules...),
	}
}

// ruleFile is the YAML layout of a rule extension file
type ruleFile struct {
	NameRules []struct {
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"name_rules"`
	ContentRules []struct {
		Category string `yaml:"category"`
		Name     string `yaml:"name"`
		Pattern  string `yaml:"pattern"`
	} `yaml:"content_rules"`
}

// ParseRules decodes a YAML rule table. Keywords are lower-cased and every
// pattern must compile.
func ParseRules(data []byte) (Rules, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	var rules Rules
	for i, nr := range file.NameRules {
		category, err := parseCategory(nr.Category)
		if err != nil {
			return Rules{}, fmt.Errorf("name rule %d: %w", i, err)
		}
		keywords := make([]string, 0, len(nr.Keywords))
		for _, kw := range nr.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		rules.NameRules = append(rules.NameRules, NameRule{Category: category, Keywords: keywords})
	}
	for i, cr := range file.ContentRules {
		category, err := parseCategory(cr.Category)
		if err != nil {
			return Rules{}, fmt.Errorf("content rule %d: %w", i, err)
		}
		pattern, err := regexp.Compile(cr.Pattern)
		if err != nil {
			return Rules{}, fmt.Errorf("content rule %q: %w", cr.Name, err)
		}
		rules.ContentRules = append(rules.ContentRules, ContentRule{Category: category, Name: cr.Name, Pattern: pattern})
	}
	return rules, nil
}

// LoadRules reads a YAML rule file and appends it to the default rules.
// An empty path yields the defaults.
func LoadRules(path string) (Rules, error) {
	defaults := DefaultRules()
	if path == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	extra, err := ParseRules(data)
	if err != nil {
		return Rules{}, err
	}
	return defaults.Extend(extra), nil
}

func parseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryPII:
		return CategoryPII, nil
	case CategoryPHI:
		return CategoryPHI, nil
	case CategoryPCI:
		return CategoryPCI, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
