package profiling

import (
	"encoding/json"
	"time"
)

// InferredType represents the automatically detected column type
type InferredType string

const (
	TypeInteger  InferredType = "integer"
	TypeFloat    InferredType = "float"
	TypeText     InferredType = "text"
	TypeDatetime InferredType = "datetime"
	TypeBoolean  InferredType = "boolean"
	TypeUnknown  InferredType = "unknown"
)

// IsNumeric reports whether the type carries numeric stats
func (t InferredType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// SensitivityFlags carries the three independent classifier results for a column
type SensitivityFlags struct {
	PII bool `json:"pii"`
	PHI bool `json:"phi"`
	PCI bool `json:"pci"`
}

// Any reports whether any category was flagged
func (f SensitivityFlags) Any() bool {
	return f.PII || f.PHI || f.PCI
}

// ColumnProfile is the derived, immutable summary of one column
type ColumnProfile struct {
	Name           string            `json:"name"`
	InferredType   InferredType      `json:"inferred_type"`
	RowCount       int               `json:"row_count"`
	NonNullCount   int               `json:"non_null_count"`
	NullCount      int               `json:"null_count"`
	NullPercentage float64           `json:"null_percentage"`
	UniqueCount    int               `json:"unique_count"`
	IsUnique       bool              `json:"is_unique"`
	ContainsPII    bool              `json:"contains_pii"`
	Sensitivity    SensitivityFlags  `json:"sensitivity"`
	Stats          TypeSpecificStats `json:"stats"`
}

// TypeSpecificStats is the variant stat payload of a column profile.
// At most one block is set and it always matches the profile's InferredType.
type TypeSpecificStats struct {
	Numeric  *NumericStats  `json:"numeric,omitempty"`
	Text     *TextStats     `json:"text,omitempty"`
	Datetime *DatetimeStats `json:"datetime,omitempty"`
	Boolean  *BooleanStats  `json:"boolean,omitempty"`
}

// NewNumericBlock wraps numeric stats as the only populated block
func NewNumericBlock(s *NumericStats) TypeSpecificStats {
	return TypeSpecificStats{Numeric: s}
}

// NewTextBlock wraps text stats as the only populated block
func NewTextBlock(s *TextStats) TypeSpecificStats {
	return TypeSpecificStats{Text: s}
}

// NewDatetimeBlock wraps datetime stats as the only populated block
func NewDatetimeBlock(s *DatetimeStats) TypeSpecificStats {
	return TypeSpecificStats{Datetime: s}
}

// NewBooleanBlock wraps boolean stats as the only populated block
func NewBooleanBlock(s *BooleanStats) TypeSpecificStats {
	return TypeSpecificStats{Boolean: s}
}

// Matches reports whether the populated block belongs to type t. An empty payload matches any type.
func (s TypeSpecificStats) Matches(t InferredType) bool {
	switch {
	case s.Numeric != nil:
		return t.IsNumeric()
	case s.Text != nil:
		return t == TypeText
	case s.Datetime != nil:
		return t == TypeDatetime
	case s.Boolean != nil:
		return t == TypeBoolean
	}
	return true
}

// IsEmpty reports whether no block is populated
func (s TypeSpecificStats) IsEmpty() bool {
	return s.Numeric == nil && s.Text == nil && s.Datetime == nil && s.Boolean == nil
}

// NumericStats contains statistics for integer and float columns
type NumericStats struct {
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev *float64 `json:"std_dev"` // nil with fewer than two values
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TextStats contains statistics for text columns
type TextStats struct {
	MinLength  int          `json:"min_length"`
	MaxLength  int          `json:"max_length"`
	AvgLength  float64      `json:"avg_length"`
	MostCommon []ValueCount `json:"most_common"`
	Entropy    float64      `json:"entropy"` // Shannon entropy in nats
}

// DatetimeStats contains statistics for datetime columns
type DatetimeStats struct {
	Min      string `json:"min_date"`
	Max      string `json:"max_date"`
	SpanDays int    `json:"date_range_days"`
}

// BooleanStats contains statistics for boolean columns
type BooleanStats struct {
	TrueCount  int `json:"true_count"`
	FalseCount int `json:"false_count"`
}

// SheetProfile aggregates column profiles for one sheet
type SheetProfile struct {
	Name              string                   `json:"name"`
	RowCount          int                      `json:"row_count"`
	ColumnCount       int                      `json:"column_count"`
	Columns           []ColumnProfile          `json:"columns"`
	Completeness      float64                  `json:"completeness"`
	NullCount         int                      `json:"null_count"`
	DuplicateRowCount int                      `json:"duplicate_row_count"`
	Preview           []map[string]interface{} `json:"preview"`
	Error             string                   `json:"error,omitempty"`
}

// Failed reports whether the sheet could not be parsed
func (s SheetProfile) Failed() bool {
	return s.Error != ""
}

// MarshalJSON emits only {name, error} for sheets that failed to parse
func (s SheetProfile) MarshalJSON() ([]byte, error) {
	if s.Failed() {
		return json.Marshal(struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		}{s.Name, s.Error})
	}
	type plain SheetProfile
	return json.Marshal(plain(s))
}

// FileAnalysis aggregates sheet profiles for the whole file
type FileAnalysis struct {
	FilePath          string         `json:"file_path"`
	FileSizeBytes     int64          `json:"file_size_bytes"`
	Sheets            []SheetProfile `json:"sheets"`
	TotalRows         int            `json:"total_rows"`
	TotalColumns      int            `json:"total_columns"`
	AnalysisTimestamp time.Time      `json:"analysis_timestamp"`
}

// ParsedSheets returns the sheets that loaded successfully, in file order
func (f *FileAnalysis) ParsedSheets() []SheetProfile {
	parsed := make([]SheetProfile, 0, len(f.Sheets))
	for _, sheet := range f.Sheets {
		if !sheet.Failed() {
			parsed = append(parsed, sheet)
		}
	}
	return parsed
}

// ProfilingConfig defines the profiling parameters
type ProfilingConfig struct {
	PreviewRows   int `json:"preview_rows"`    // rows kept verbatim per sheet
	TopValues     int `json:"top_values"`      // most frequent text values reported
	PIISampleSize int `json:"pii_sample_size"` // non-null values scanned by content rules
}

// DefaultProfilingConfig returns sensible defaults
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		PreviewRows:   5,
		TopValues:     5,
		PIISampleSize: 100,
	}
}
