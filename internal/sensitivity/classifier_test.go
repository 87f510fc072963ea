package sensitivity

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/ingestion"
	"datacatalog/domain/datareadiness/profiling"
)

func TestClassifyName(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		column string
		want   profiling.SensitivityFlags
	}{
		{"Customer_Email_Address", profiling.SensitivityFlags{PII: true}},
		{"FirstName", profiling.SensitivityFlags{PII: true}},
		{"patient_id", profiling.SensitivityFlags{PHI: true}},
		{"billing_total", profiling.SensitivityFlags{PCI: true}},
		{"credit_card_number", profiling.SensitivityFlags{PII: true, PCI: true}},
		{"Patient Name", profiling.SensitivityFlags{PII: true, PHI: true}},
		{"amount", profiling.SensitivityFlags{}},
		{"", profiling.SensitivityFlags{}},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ClassifyName(tt.column))
		})
	}
}

func TestClassify_ContentRules(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name   string
		sample []string
		pii    bool
	}{
		{"email", []string{"hello", "reach me at jo@example.org"}, true},
		{"phone", []string{"+1 (555) 123-4567"}, true},
		{"bare phone digits", []string{"5551234567"}, true},
		{"ssn", []string{"123-45-6789"}, true},
		{"plain text", []string{"alpha", "beta", "12-34"}, false},
		{"iso dates", []string{"2024-01-01T00:00:00"}, false},
		{"empty sample", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := c.Classify("notes", tt.sample)
			assert.Equal(t, tt.pii, flags.PII)
			assert.False(t, flags.PHI)
			assert.False(t, flags.PCI)
		})
	}
}

func TestClassify_SampleIsBounded(t *testing.T) {
	c := NewClassifier(DefaultRules(), 3)
	sample := []string{"a", "b", "c", "x@example.com"}

	assert.False(t, c.Classify("notes", sample).PII)
	assert.True(t, NewClassifier(DefaultRules(), 4).Classify("notes", sample).PII)
}

func TestClassifyValues_SkipsNullsAndFindsOneEmail(t *testing.T) {
	c := NewDefaultClassifier()
	values := make([]ingestion.Value, 0, 101)
	values = append(values, ingestion.NewMissingValue())
	for i := 0; i < 99; i++ {
		values = append(values, ingestion.NewStringValue(fmt.Sprintf("item-%03d", i)))
	}
	values = append(values, ingestion.NewStringValue("owner@example.com"))

	flags := c.ClassifyValues("label", values)
	assert.True(t, flags.PII)
}

func TestClassifyValues_NumbersAreStringified(t *testing.T) {
	c := NewDefaultClassifier()
	values := []ingestion.Value{ingestion.NewIntegerValue(5551234567)}
	assert.True(t, c.ClassifyValues("contact", values).PII)
	assert.False(t, c.ClassifyValues("qty", []ingestion.Value{ingestion.NewIntegerValue(42)}).PII)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, catalog.SensitivityCritical, Level(profiling.SensitivityFlags{PHI: true}))
	assert.Equal(t, catalog.SensitivityCritical, Level(profiling.SensitivityFlags{PII: true, PCI: true}))
	assert.Equal(t, catalog.SensitivityHigh, Level(profiling.SensitivityFlags{PII: true}))
	assert.Equal(t, catalog.SensitivityMedium, Level(profiling.SensitivityFlags{}))
}

func TestLoadRules_Extension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
name_rules:
  - category: phi
    keywords: [" Allergy "]
content_rules:
  - category: PCI
    name: card_number
    pattern: '\b\d{4}[- ]\d{4}[- ]\d{4}[- ]\d{4}\b'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Len(t, rules.NameRules, 4)
	assert.Len(t, rules.ContentRules, 4)

	c := NewClassifier(rules, 0)
	assert.True(t, c.ClassifyName("known_allergy").PHI)
	assert.True(t, c.Classify("ref", []string{"4111 1111 1111 1111"}).PCI)
}

func TestLoadRules_Errors(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Len(t, rules.ContentRules, 3)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("name_rules:\n  - category: SECRET\n    keywords: [x]\n"))
	assert.ErrorContains(t, err, "unknown category")

	_, err = ParseRules([]byte("content_rules:\n  - category: PII\n    name: bad\n    pattern: '('\n"))
	assert.ErrorContains(t, err, "bad")
}
