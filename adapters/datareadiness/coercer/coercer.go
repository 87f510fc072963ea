package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"datacatalog/domain/datareadiness/ingestion"
	"datacatalog/domain/datareadiness/profiling"
)

// TypeCoercer converts raw cell text into typed values and infers column types
type TypeCoercer struct {
	config     CoercionConfig
	nullTokens map[string]struct{}
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	IntegerThreshold   float64  `json:"integer_threshold" yaml:"integer_threshold"`     // share of non-null values that must be integers
	NumericThreshold   float64  `json:"numeric_threshold" yaml:"numeric_threshold"`     // share that must be integers or floats
	BooleanThreshold   float64  `json:"boolean_threshold" yaml:"boolean_threshold"`     // share that must be booleans
	TimestampThreshold float64  `json:"timestamp_threshold" yaml:"timestamp_threshold"` // share that must be datetimes
	NullTokens         []string `json:"null_tokens" yaml:"null_tokens"`
	TimestampLayouts   []string `json:"timestamp_layouts" yaml:"timestamp_layouts"`
}

// DefaultNullTokens are the cell texts read as null, compared after trimming
var DefaultNullTokens = []string{"", "NA", "N/A", "NULL", "null", "NaN", "nan", "None", "#N/A", "-NaN"}

// DefaultTimestampLayouts covers ISO text plus the date formats excelize renders by default
var DefaultTimestampLayouts = []string{
	time.RFC3339,
	ingestion.ISOLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// DefaultCoercionConfig requires every non-null value to agree on a type
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		IntegerThreshold:   1.0,
		NumericThreshold:   1.0,
		BooleanThreshold:   1.0,
		TimestampThreshold: 1.0,
		NullTokens:         DefaultNullTokens,
		TimestampLayouts:   DefaultTimestampLayouts,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.NullTokens == nil {
		config.NullTokens = DefaultNullTokens
	}
	if len(config.TimestampLayouts) == 0 {
		config.TimestampLayouts = DefaultTimestampLayouts
	}
	tokens := make(map[string]struct{}, len(config.NullTokens))
	for _, tok := range config.NullTokens {
		tokens[tok] = struct{}{}
	}
	return &TypeCoercer{config: config, nullTokens: tokens}
}

// Config returns the effective configuration
func (c *TypeCoercer) Config() CoercionConfig {
	return c.config
}

// IsNullToken reports whether raw cell text denotes a null cell
func (c *TypeCoercer) IsNullToken(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return true
	}
	_, ok := c.nullTokens[trimmed]
	return ok
}

// CoerceCell deterministically converts one raw cell to a typed Value.
// Integer is tried first, then float, boolean and timestamp; anything else stays text.
func (c *TypeCoercer) CoerceCell(raw string) ingestion.Value {
	if c.IsNullToken(raw) {
		return ingestion.NewMissingValue()
	}
	trimmed := strings.TrimSpace(raw)

	if v, ok := tryParseInteger(trimmed); ok {
		return v
	}
	if v, ok := tryParseFloat(trimmed); ok {
		return v
	}
	if v, ok := tryParseBoolean(trimmed); ok {
		return v
	}
	if v, ok := c.tryParseTimestamp(trimmed); ok {
		return v
	}
	return ingestion.NewStringValue(raw)
}

// CoerceRow converts a row of raw cells, padding it with nulls up to width
func (c *TypeCoercer) CoerceRow(raw []string, width int) ingestion.Row {
	row := make(ingestion.Row, width)
	for i := 0; i < width; i++ {
		if i < len(raw) {
			row[i] = c.CoerceCell(raw[i])
		} else {
			row[i] = ingestion.NewMissingValue()
		}
	}
	return row
}

// AnalyzeTypeDistribution counts how the non-null values of a column split across types
func (c *TypeCoercer) AnalyzeTypeDistribution(values []ingestion.Value) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, val := range values {
		if val.IsMissing() {
			continue
		}
		analysis.ValidCount++
		switch val.Type {
		case ingestion.ValueTypeInteger:
			analysis.IntegerCount++
			analysis.NumericCount++
		case ingestion.ValueTypeFloat:
			analysis.NumericCount++
		case ingestion.ValueTypeBoolean:
			analysis.BooleanCount++
		case ingestion.ValueTypeTimestamp:
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.IntegerRatio = float64(analysis.IntegerCount) / valid
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}
	analysis.RecommendedType = c.determineRecommendedType(analysis)

	return analysis
}

// InferColumnType classifies a column by the value domain of its non-null cells
func (c *TypeCoercer) InferColumnType(values []ingestion.Value) profiling.InferredType {
	return c.AnalyzeTypeDistribution(values).RecommendedType
}

func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) profiling.InferredType {
	if analysis.ValidCount == 0 {
		return profiling.TypeUnknown
	}
	if analysis.IntegerRatio >= c.config.IntegerThreshold {
		return profiling.TypeInteger
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return profiling.TypeFloat
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return profiling.TypeBoolean
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return profiling.TypeDatetime
	}
	return profiling.TypeText
}

func tryParseInteger(s string) (ingestion.Value, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ingestion.Value{}, false
	}
	return ingestion.NewIntegerValue(n), true
}

func tryParseFloat(s string) (ingestion.Value, bool) {
	// ParseFloat also accepts "inf", "infinity" and hex mantissas
	if strings.ContainsAny(s, "xXpP_") {
		return ingestion.Value{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return ingestion.Value{}, false
	}
	return ingestion.NewFloatValue(f), true
}

func tryParseBoolean(s string) (ingestion.Value, bool) {
	switch strings.ToLower(s) {
	case "true":
		return ingestion.NewBooleanValue(true), true
	case "false":
		return ingestion.NewBooleanValue(false), true
	}
	return ingestion.Value{}, false
}

func (c *TypeCoercer) tryParseTimestamp(s string) (ingestion.Value, bool) {
	for _, layout := range c.config.TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ingestion.NewTimestampValue(t), true
		}
	}
	return ingestion.Value{}, false
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                    `json:"total_count"`
	ValidCount      int                    `json:"valid_count"`
	IntegerCount    int                    `json:"integer_count"`
	NumericCount    int                    `json:"numeric_count"`
	BooleanCount    int                    `json:"boolean_count"`
	TimestampCount  int                    `json:"timestamp_count"`
	IntegerRatio    float64                `json:"integer_ratio"`
	NumericRatio    float64                `json:"numeric_ratio"`
	BooleanRatio    float64                `json:"boolean_ratio"`
	TimestampRatio  float64                `json:"timestamp_ratio"`
	RecommendedType profiling.InferredType `json:"recommended_type"`
}
