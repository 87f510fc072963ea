package metadata

import (
	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
	"datacatalog/internal/sensitivity"
)

// BuildFields turns every profiled column of the parsed sheets into a catalog
// field carrying the column's three classifier flags.
func BuildFields(analysis *profiling.FileAnalysis) []catalog.DataField {
	var fields []catalog.DataField
	for _, sheet := range analysis.ParsedSheets() {
		for _, col := range sheet.Columns {
			fields = append(fields, catalog.DataField{
				SheetName:        sheet.Name,
				FieldName:        col.Name,
				DataType:         string(col.InferredType),
				IsNullable:       col.NullCount > 0,
				IsUnique:         col.IsUnique,
				SensitivityLevel: sensitivity.Level(col.Sensitivity),
				ContainsPII:      col.Sensitivity.PII,
				ContainsPHI:      col.Sensitivity.PHI,
				ContainsPCI:      col.Sensitivity.PCI,
			})
		}
	}
	return fields
}

// BuildFieldsFromSchema classifies stored schema columns by name only, for
// assets whose source file is no longer available. Blank and repeated names
// within a sheet are skipped.
func BuildFieldsFromSchema(schema catalog.SchemaInfo, classifier *sensitivity.Classifier) []catalog.DataField {
	var fields []catalog.DataField
	for _, sheet := range schema.Sheets {
		seen := make(map[string]bool, len(sheet.Columns))
		for _, col := range sheet.Columns {
			if col.Name == "" || seen[col.Name] {
				continue
			}
			seen[col.Name] = true

			flags := classifier.ClassifyName(col.Name)
			flags.PII = flags.PII || col.ContainsPII
			fields = append(fields, catalog.DataField{
				SheetName:        sheet.Name,
				FieldName:        col.Name,
				DataType:         string(col.DataType),
				IsNullable:       col.Nullable,
				IsUnique:         col.Unique,
				SensitivityLevel: sensitivity.Level(flags),
				ContainsPII:      flags.PII,
				ContainsPHI:      flags.PHI,
				ContainsPCI:      flags.PCI,
			})
		}
	}
	return fields
}
