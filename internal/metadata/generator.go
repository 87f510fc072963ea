package metadata

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
	profstats "datacatalog/internal/profiling"
)

const (
	highQualityCompleteness = 95.0
	largeDatasetRows        = 10000
)

// AssetName returns suggested when it is not blank, otherwise the file's base name without extension
func AssetName(filePath, suggested string) string {
	if name := strings.TrimSpace(suggested); name != "" {
		return name
	}
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Generate derives catalog metadata from a file analysis. Only sheets that
// parsed contribute to the schema, the quality score and the tags.
func Generate(analysis *profiling.FileAnalysis, suggestedName string, importedAt time.Time) catalog.SuggestedAssetMetadata {
	parsed := analysis.ParsedSheets()
	baseName := filepath.Base(analysis.FilePath)

	schema := catalog.SchemaInfo{Sheets: make([]catalog.SheetSchema, 0, len(parsed))}
	highQuality := false
	sensitive := false
	completenessSum := 0.0

	for _, sheet := range parsed {
		sheetSchema := catalog.SheetSchema{
			Name:    sheet.Name,
			Columns: make([]catalog.ColumnSchema, 0, len(sheet.Columns)),
		}
		for _, col := range sheet.Columns {
			sheetSchema.Columns = append(sheetSchema.Columns, catalog.ColumnSchema{
				Name:        col.Name,
				DataType:    col.InferredType,
				Nullable:    col.NullCount > 0,
				Unique:      col.IsUnique,
				ContainsPII: col.ContainsPII,
			})
			sensitive = sensitive || col.ContainsPII
		}
		schema.Sheets = append(schema.Sheets, sheetSchema)

		completenessSum += sheet.Completeness
		highQuality = highQuality || sheet.Completeness > highQualityCompleteness
	}

	tags := []string{}
	if highQuality {
		tags = append(tags, catalog.TagHighQuality)
	}
	if sensitive {
		tags = append(tags, catalog.TagContainsPII)
	}
	if analysis.TotalRows > largeDatasetRows {
		tags = append(tags, catalog.TagLargeDataset)
	}

	score := 0.0
	if len(parsed) > 0 {
		score = profstats.Round(completenessSum/float64(len(parsed))/100, 3)
	}

	access := catalog.AccessInternal
	if sensitive {
		access = catalog.AccessRestricted
	}

	return catalog.SuggestedAssetMetadata{
		AssetName:      AssetName(analysis.FilePath, suggestedName),
		Description:    fmt.Sprintf("Data asset generated from %s", baseName),
		SourceSystem:   catalog.SourceSystem,
		SourceLocation: analysis.FilePath,
		SchemaInfo:     schema,
		Metadata: catalog.ImportMetadata{
			ImportDate:       importedAt.UTC(),
			OriginalFilename: baseName,
			RowCount:         analysis.TotalRows,
			ColumnCount:      analysis.TotalColumns,
			SheetCount:       len(parsed),
			FileAnalysis:     analysis,
		},
		Tags:             tags,
		DataQualityScore: score,
		IsSensitive:      sensitive,
		AccessLevel:      access,
	}
}
