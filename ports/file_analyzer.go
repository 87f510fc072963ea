package ports

import (
	"context"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
)

// FileAnalyzer is the profiling engine as seen by the transports
type FileAnalyzer interface {
	Analyze(ctx context.Context, filePath string) (*profiling.FileAnalysis, error)
	ValidateForImport(filePath string) (bool, []string)
	GenerateAssetMetadata(analysis *profiling.FileAnalysis, suggestedName string) catalog.SuggestedAssetMetadata
	ClassifySensitivity(columnName string, sample []string) profiling.SensitivityFlags
	ClassifySchema(schema catalog.SchemaInfo) []catalog.DataField
	ImportFile(ctx context.Context, filePath string, overrides catalog.ImportOverrides) (*catalog.AssetRecord, error)
	GetAsset(ctx context.Context, id string) (*catalog.AssetRecord, error)
}
