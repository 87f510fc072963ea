package sensitivity

import (
	"strings"

	"github.com/rs/zerolog"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/ingestion"
	"datacatalog/domain/datareadiness/profiling"
	"datacatalog/internal/logger"
)

// DefaultSampleSize bounds how many non-null values content rules inspect
const DefaultSampleSize = 100

// Classifier applies the name and content rule tables to a column
type Classifier struct {
	rules      Rules
	sampleSize int
	log        zerolog.Logger
}

// NewClassifier creates a classifier over rules. A non-positive sampleSize uses DefaultSampleSize.
func NewClassifier(rules Rules, sampleSize int) *Classifier {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Classifier{
		rules:      rules,
		sampleSize: sampleSize,
		log:        logger.Component("Classifier"),
	}
}

// NewDefaultClassifier uses the built-in rules and sample size
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules(), DefaultSampleSize)
}

// SampleSize returns the number of values content rules inspect
func (c *Classifier) SampleSize() int {
	return c.sampleSize
}

// Classify flags a column from its name and the first SampleSize sample values.
// A category already flagged by name is not scanned again.
func (c *Classifier) Classify(columnName string, sample []string) profiling.SensitivityFlags {
	flags := c.ClassifyName(columnName)

	if len(sample) > c.sampleSize {
		sample = sample[:c.sampleSize]
	}
	for _, rule := range c.rules.ContentRules {
		if isSet(flags, rule.Category) {
			continue
		}
		for _, value := range sample {
			if rule.Pattern.MatchString(value) {
				c.log.Debug().Str("column", columnName).Str("rule", rule.Name).Msg("content rule matched")
				set(&flags, rule.Category)
				break
			}
		}
	}
	return flags
}

// ClassifyName applies only the keyword rules
func (c *Classifier) ClassifyName(columnName string) profiling.SensitivityFlags {
	var flags profiling.SensitivityFlags
	lower := strings.ToLower(columnName)
	for _, rule := range c.rules.NameRules {
		if isSet(flags, rule.Category) {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				set(&flags, rule.Category)
				break
			}
		}
	}
	return flags
}

// ClassifyValues samples the first non-null cells of a column, stringified, and classifies them
func (c *Classifier) ClassifyValues(columnName string, values []ingestion.Value) profiling.SensitivityFlags {
	sample := make([]string, 0, c.sampleSize)
	for _, v := range values {
		if len(sample) == c.sampleSize {
			break
		}
		if !v.IsMissing() {
			sample = append(sample, v.String())
		}
	}
	return c.Classify(columnName, sample)
}

// Level ranks flags: PHI or PCI is Critical, PII alone is High, otherwise Medium
func Level(flags profiling.SensitivityFlags) catalog.SensitivityLevel {
	switch {
	case flags.PHI || flags.PCI:
		return catalog.SensitivityCritical
	case flags.PII:
		return catalog.SensitivityHigh
	default:
		return catalog.SensitivityMedium
	}
}

func isSet(flags profiling.SensitivityFlags, category Category) bool {
	switch category {
	case CategoryPII:
		return flags.PII
	case CategoryPHI:
		return flags.PHI
	case CategoryPCI:
		return flags.PCI
	}
	return false
}

func set(flags *profiling.SensitivityFlags, category Category) {
	switch category {
	case CategoryPII:
		flags.PII = true
	case CategoryPHI:
		flags.PHI = true
	case CategoryPCI:
		flags.PCI = true
	}
}
