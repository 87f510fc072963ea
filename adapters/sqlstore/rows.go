package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timestampLayouts are the text forms drivers hand back for timestamp columns
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// dbTime scans timestamps returned either as time.Time or as text
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t dbTime) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}

// assetRow is the stored shape of catalog.AssetRecord; structured fields are JSON text
type assetRow struct {
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	Description      string  `db:"description"`
	SourceSystem     string  `db:"source_system"`
	SourceLocation   string  `db:"source_location"`
	SchemaInfo       string  `db:"schema_info"`
	Metadata         string  `db:"metadata"`
	Tags             string  `db:"tags"`
	DataQualityScore float64 `db:"data_quality_score"`
	IsSensitive      bool    `db:"is_sensitive"`
	IsPublic         bool    `db:"is_public"`
	AccessLevel      string  `db:"access_level"`
	CreatedAt        dbTime  `db:"created_at"`
}

// fieldRow is the stored shape of catalog.DataField
type fieldRow struct {
	ID               string `db:"id"`
	AssetID          string `db:"asset_id"`
	Ordinal          int    `db:"ordinal"`
	SheetName        string `db:"sheet_name"`
	FieldName        string `db:"field_name"`
	DataType         string `db:"data_type"`
	IsNullable       bool   `db:"is_nullable"`
	IsUnique         bool   `db:"is_unique"`
	SensitivityLevel string `db:"sensitivity_level"`
	ContainsPII      bool   `db:"contains_pii"`
	ContainsPHI      bool   `db:"contains_phi"`
	ContainsPCI      bool   `db:"contains_pci"`
	CreatedAt        dbTime `db:"created_at"`
}
