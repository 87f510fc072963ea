package app

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"datacatalog/adapters/datareadiness"
	"datacatalog/adapters/excel"
	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/logger"
	"datacatalog/internal/metadata"
	"datacatalog/internal/sensitivity"
	"datacatalog/internal/validation"
	"datacatalog/ports"
)

// AnalysisService runs the file profiling pipeline: load, profile, aggregate, suggest
type AnalysisService struct {
	reader     *excel.DataReader
	profiler   *datareadiness.ProfilerAdapter
	classifier *sensitivity.Classifier
	validator  *validation.ImportValidator
	repository ports.AssetRepository
	now        func() time.Time
	log        zerolog.Logger
}

// AnalysisServiceConfig configures the pipeline stages
type AnalysisServiceConfig struct {
	Excel       excel.ExcelConfig
	Rules       sensitivity.Rules
	MaxFileSize int64
}

// DefaultAnalysisServiceConfig uses the built-in rules and a 50MB upload ceiling
func DefaultAnalysisServiceConfig() AnalysisServiceConfig {
	return AnalysisServiceConfig{
		Excel:       excel.DefaultExcelConfig(),
		Rules:       sensitivity.DefaultRules(),
		MaxFileSize: validation.DefaultMaxFileSize,
	}
}

// NewAnalysisService wires the pipeline. repository may be nil when nothing is persisted.
func NewAnalysisService(config AnalysisServiceConfig, repository ports.AssetRepository) *AnalysisService {
	reader := excel.NewDataReader(config.Excel)
	classifier := sensitivity.NewClassifier(config.Rules, config.Excel.ProfilingConfig.PIISampleSize)

	return &AnalysisService{
		reader:     reader,
		profiler:   datareadiness.NewProfilerAdapter(reader.Coercer(), classifier, config.Excel.ProfilingConfig),
		classifier: classifier,
		validator:  validation.NewImportValidator(reader, config.MaxFileSize),
		repository: repository,
		now:        time.Now,
		log:        logger.Component("AnalysisService"),
	}
}

// Analyze profiles every sheet of the file. Unsupported, missing and unreadable
// files fail; a sheet that fails on its own is recorded in the result.
func (s *AnalysisService) Analyze(ctx context.Context, filePath string) (*profiling.FileAnalysis, error) {
	start := time.Now()

	sheets, err := s.reader.ReadSheets(filePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, apperrors.CorruptFile(filePath, err)
	}

	analysis := s.profiler.ProfileFile(filePath, info.Size(), sheets, s.now().UTC())

	s.log.Info().
		Str("file", filePath).
		Int("sheets", len(analysis.Sheets)).
		Int("rows", analysis.TotalRows).
		Int("columns", analysis.TotalColumns).
		Dur("elapsed", time.Since(start)).
		Msg("file analyzed")

	return analysis, nil
}

// ValidateForImport runs the pre-import checks and returns every issue found
func (s *AnalysisService) ValidateForImport(filePath string) (bool, []string) {
	return s.validator.Validate(filePath)
}

// GenerateAssetMetadata suggests a catalog entry for an analyzed file
func (s *AnalysisService) GenerateAssetMetadata(analysis *profiling.FileAnalysis, suggestedName string) catalog.SuggestedAssetMetadata {
	return metadata.Generate(analysis, suggestedName, s.now())
}

// ClassifySensitivity flags a column from its name and sample values without a file
func (s *AnalysisService) ClassifySensitivity(columnName string, sample []string) profiling.SensitivityFlags {
	return s.classifier.Classify(columnName, sample)
}

// ClassifySchema builds classified fields for a schema by column name alone
func (s *AnalysisService) ClassifySchema(schema catalog.SchemaInfo) []catalog.DataField {
	return metadata.BuildFieldsFromSchema(schema, s.classifier)
}

// ImportFile validates, analyzes and stores the file as a catalog asset with one
// field per profiled column.
func (s *AnalysisService) ImportFile(ctx context.Context, filePath string, overrides catalog.ImportOverrides) (*catalog.AssetRecord, error) {
	if s.repository == nil {
		return nil, apperrors.InternalError("no asset repository configured")
	}

	if ok, issues := s.ValidateForImport(filePath); !ok {
		return nil, &apperrors.AppError{
			Code:    apperrors.CodeValidationError,
			Message: "file failed import validation",
			Cause:   validation.IssuesError(issues),
		}
	}

	analysis, err := s.Analyze(ctx, filePath)
	if err != nil {
		return nil, err
	}

	suggested := s.GenerateAssetMetadata(analysis, overrides.AssetName)
	record := catalog.NewAssetRecord(suggested)
	overrides.Apply(&record)
	record.Fields = metadata.BuildFields(analysis)

	if err := s.repository.CreateAsset(ctx, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to store asset")
	}

	s.log.Info().
		Str("asset_id", record.ID).
		Str("name", record.Name).
		Int("fields", len(record.Fields)).
		Bool("sensitive", record.IsSensitive).
		Msg("asset imported")

	return &record, nil
}

// GetAsset loads a stored asset with its fields
func (s *AnalysisService) GetAsset(ctx context.Context, id string) (*catalog.AssetRecord, error) {
	if s.repository == nil {
		return nil, apperrors.NotFound("asset " + id)
	}
	return s.repository.GetAsset(ctx, id)
}

var _ ports.FileAnalyzer = (*AnalysisService)(nil)
