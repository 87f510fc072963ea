package catalog

import (
	"time"

	"datacatalog/domain/datareadiness/profiling"
)

// SourceSystem is recorded on every asset created from an uploaded file
const SourceSystem = "Excel/CSV Import"

// AccessLevel gates who may read an asset in the catalog
type AccessLevel string

const (
	AccessInternal   AccessLevel = "Internal"
	AccessRestricted AccessLevel = "Restricted"
)

// SensitivityLevel ranks a field by the categories it was flagged with
type SensitivityLevel string

const (
	SensitivityMedium   SensitivityLevel = "Medium"
	SensitivityHigh     SensitivityLevel = "High"
	SensitivityCritical SensitivityLevel = "Critical"
)

// Tags derived from a file analysis
const (
	TagHighQuality  = "high-quality"
	TagContainsPII  = "contains-pii"
	TagLargeDataset = "large-dataset"
)

// ColumnSchema is the catalog view of one profiled column
type ColumnSchema struct {
	Name        string                 `json:"name"`
	DataType    profiling.InferredType `json:"data_type"`
	Nullable    bool                   `json:"nullable"`
	Unique      bool                   `json:"unique"`
	ContainsPII bool                   `json:"contains_pii"`
}

// SheetSchema lists the columns of one parsed sheet
type SheetSchema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
}

// SchemaInfo is the per-sheet column layout stored on an asset
type SchemaInfo struct {
	Sheets []SheetSchema `json:"sheets"`
}

// ColumnCount returns the number of columns across all sheets
func (s SchemaInfo) ColumnCount() int {
	n := 0
	for _, sheet := range s.Sheets {
		n += len(sheet.Columns)
	}
	return n
}

// ImportMetadata records how and when an asset was derived from a file
type ImportMetadata struct {
	ImportDate       time.Time               `json:"import_date"`
	OriginalFilename string                  `json:"original_filename"`
	RowCount         int                     `json:"row_count"`
	ColumnCount      int                     `json:"column_count"`
	SheetCount       int                     `json:"sheet_count"`
	FileAnalysis     *profiling.FileAnalysis `json:"file_analysis,omitempty"`
}

// SuggestedAssetMetadata is a catalog entry proposed from a file analysis
type SuggestedAssetMetadata struct {
	AssetName        string         `json:"asset_name"`
	Description      string         `json:"description"`
	SourceSystem     string         `json:"source_system"`
	SourceLocation   string         `json:"source_location"`
	SchemaInfo       SchemaInfo     `json:"schema_info"`
	Metadata         ImportMetadata `json:"metadata"`
	Tags             []string       `json:"tags"`
	DataQualityScore float64        `json:"data_quality_score"`
	IsSensitive      bool           `json:"is_sensitive"`
	AccessLevel      AccessLevel    `json:"access_level"`
}

// HasTag reports whether tag was derived for the asset
func (m SuggestedAssetMetadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AssetRecord is a persisted catalog asset
type AssetRecord struct {
	ID               string         `json:"id" db:"id"`
	Name             string         `json:"asset_name" db:"name"`
	Description      string         `json:"description" db:"description"`
	SourceSystem     string         `json:"source_system" db:"source_system"`
	SourceLocation   string         `json:"source_location" db:"source_location"`
	SchemaInfo       SchemaInfo     `json:"schema_info" db:"-"`
	Metadata         ImportMetadata `json:"metadata" db:"-"`
	Tags             []string       `json:"tags" db:"-"`
	DataQualityScore float64        `json:"data_quality_score" db:"data_quality_score"`
	IsSensitive      bool           `json:"is_sensitive" db:"is_sensitive"`
	IsPublic         bool           `json:"is_public" db:"is_public"`
	AccessLevel      AccessLevel    `json:"access_level" db:"access_level"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	Fields           []DataField    `json:"fields,omitempty" db:"-"`
}

// NewAssetRecord copies suggested metadata into an unsaved record
func NewAssetRecord(m SuggestedAssetMetadata) AssetRecord {
	return AssetRecord{
		Name:             m.AssetName,
		Description:      m.Description,
		SourceSystem:     m.SourceSystem,
		SourceLocation:   m.SourceLocation,
		SchemaInfo:       m.SchemaInfo,
		Metadata:         m.Metadata,
		Tags:             append([]string(nil), m.Tags...),
		DataQualityScore: m.DataQualityScore,
		IsSensitive:      m.IsSensitive,
		AccessLevel:      m.AccessLevel,
	}
}

// DataField is one column of an asset with its privacy classification
type DataField struct {
	ID               string           `json:"field_id" db:"id"`
	AssetID          string           `json:"asset_id" db:"asset_id"`
	SheetName        string           `json:"sheet_name" db:"sheet_name"`
	FieldName        string           `json:"field_name" db:"field_name"`
	DataType         string           `json:"data_type" db:"data_type"`
	IsNullable       bool             `json:"is_nullable" db:"is_nullable"`
	IsUnique         bool             `json:"is_unique" db:"is_unique"`
	SensitivityLevel SensitivityLevel `json:"sensitivity_level" db:"sensitivity_level"`
	ContainsPII      bool             `json:"contains_pii" db:"contains_pii"`
	ContainsPHI      bool             `json:"contains_phi" db:"contains_phi"`
	ContainsPCI      bool             `json:"contains_pci" db:"contains_pci"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// PrivacyFlags returns the category labels set on the field
func (f DataField) PrivacyFlags() []string {
	var flags []string
	if f.ContainsPII {
		flags = append(flags, "PII")
	}
	if f.ContainsPHI {
		flags = append(flags, "PHI")
	}
	if f.ContainsPCI {
		flags = append(flags, "PCI")
	}
	return flags
}
