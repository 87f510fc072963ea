package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/testkit"
)

// MockAssetRepository is a mock implementation of ports.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) CreateAsset(ctx context.Context, asset *catalog.AssetRecord) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) GetAsset(ctx context.Context, id string) (*catalog.AssetRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AssetRecord), args.Error(1)
}

func (m *MockAssetRepository) ListAssets(ctx context.Context, limit, offset int) ([]catalog.AssetRecord, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]catalog.AssetRecord), args.Error(1)
}

func (m *MockAssetRepository) ListFields(ctx context.Context, assetID string) ([]catalog.DataField, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).([]catalog.DataField), args.Error(1)
}

var fixedNow = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

func newTestService(repo *MockAssetRepository) *AnalysisService {
	var s *AnalysisService
	if repo == nil {
		s = NewAnalysisService(DefaultAnalysisServiceConfig(), nil)
	} else {
		s = NewAnalysisService(DefaultAnalysisServiceConfig(), repo)
	}
	s.now = func() time.Time { return fixedNow }
	return s
}

func ordersCSV(t *testing.T) string {
	return testkit.WriteCSV(t, "orders.csv", [][]string{
		{"id", "email", "amount"},
		{"1", "ann@example.com", "10.5"},
		{"2", "bob@example.org", ""},
		{"3", "cy@example.net", "7"},
	})
}

func TestAnalyze_CSVWithEmailColumn(t *testing.T) {
	s := newTestService(nil)
	path := ordersCSV(t)

	analysis, err := s.Analyze(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, analysis.Sheets, 1)
	sheet := analysis.Sheets[0]
	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, 88.89, sheet.Completeness)
	assert.Equal(t, 0, sheet.DuplicateRowCount)
	assert.Equal(t, 1, sheet.NullCount)
	require.Len(t, sheet.Columns, 3)
	assert.False(t, sheet.Columns[0].ContainsPII)
	assert.True(t, sheet.Columns[1].ContainsPII)
	assert.Equal(t, profiling.TypeFloat, sheet.Columns[2].InferredType)
	assert.Equal(t, 3, analysis.TotalRows)
	assert.Equal(t, 3, analysis.TotalColumns)
	assert.Equal(t, fixedNow, analysis.AnalysisTimestamp)
	assert.Positive(t, analysis.FileSizeBytes)

	suggested := s.GenerateAssetMetadata(analysis, "")
	assert.Equal(t, "orders", suggested.AssetName)
	assert.Equal(t, 0.889, suggested.DataQualityScore)
	assert.True(t, suggested.HasTag(catalog.TagContainsPII))
	assert.False(t, suggested.HasTag(catalog.TagHighQuality))
	assert.True(t, suggested.IsSensitive)
	assert.Equal(t, catalog.AccessRestricted, suggested.AccessLevel)
}

func TestAnalyze_WorkbookWithCorruptSheet(t *testing.T) {
	s := newTestService(nil)
	path := testkit.WriteWorkbook(t, "report.xlsx",
		testkit.Sheet{Name: "North", Rows: testkit.Strings(
			[]string{"region", "units"}, []string{"n1", "4"}, []string{"n2", "5"},
		)},
		testkit.Sheet{Name: "Broken", Rows: testkit.Strings(
			[]string{"id"}, []string{"1"},
		)},
		testkit.Sheet{Name: "South", Rows: testkit.Strings(
			[]string{"region", "units", "notes"}, []string{"s1", "8", "ok"},
		)},
	)
	testkit.CorruptWorksheet(t, path, 2)

	analysis, err := s.Analyze(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, analysis.Sheets, 3)
	assert.False(t, analysis.Sheets[0].Failed())
	assert.Equal(t, "Broken", analysis.Sheets[1].Name)
	assert.True(t, analysis.Sheets[1].Failed())
	assert.Contains(t, analysis.Sheets[1].Error, "Could not analyze sheet: ")
	assert.False(t, analysis.Sheets[2].Failed())
	assert.Equal(t, 3, analysis.TotalRows)
	assert.Equal(t, 5, analysis.TotalColumns)

	suggested := s.GenerateAssetMetadata(analysis, "Regional report")
	assert.Equal(t, "Regional report", suggested.AssetName)
	assert.Len(t, suggested.SchemaInfo.Sheets, 2)
	assert.Equal(t, 2, suggested.Metadata.SheetCount)
}

func TestAnalyze_LargeDataset(t *testing.T) {
	s := newTestService(nil)
	config := testkit.DefaultCustomerConfig()
	config.RowCount = 15000
	path := testkit.WriteCSV(t, "customers.csv", testkit.NewCustomerGenerator(config).Records())

	analysis, err := s.Analyze(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 15000, analysis.TotalRows)

	suggested := s.GenerateAssetMetadata(analysis, "")
	assert.Equal(t, []string{catalog.TagHighQuality, catalog.TagLargeDataset}, suggested.Tags)
	assert.False(t, suggested.IsSensitive)
	assert.Equal(t, catalog.AccessInternal, suggested.AccessLevel)
	assert.Equal(t, 1.0, suggested.DataQualityScore)
}

func TestAnalyze_ContentOnlyEmail(t *testing.T) {
	s := newTestService(nil)
	records := [][]string{{"contact"}}
	for i := 0; i < 100; i++ {
		value := fmt.Sprintf("value-%03d", i)
		if i == 57 {
			value = "someone@example.com"
		}
		records = append(records, []string{value})
	}
	path := testkit.WriteCSV(t, "contacts.csv", records)

	analysis, err := s.Analyze(context.Background(), path)
	require.NoError(t, err)

	column := analysis.Sheets[0].Columns[0]
	assert.Equal(t, 100, column.UniqueCount)
	assert.True(t, column.IsUnique)
	assert.True(t, column.ContainsPII)
}

func TestAnalyze_Idempotent(t *testing.T) {
	s := NewAnalysisService(DefaultAnalysisServiceConfig(), nil)
	path := ordersCSV(t)

	first, err := s.Analyze(context.Background(), path)
	require.NoError(t, err)
	second, err := s.Analyze(context.Background(), path)
	require.NoError(t, err)

	second.AnalysisTimestamp = first.AnalysisTimestamp
	assert.Equal(t, first, second)
}

func TestAnalyze_Rejections(t *testing.T) {
	s := newTestService(nil)

	_, err := s.Analyze(context.Background(), "/nope/missing.csv")
	assert.True(t, apperrors.IsFileNotFound(err))

	path := testkit.WriteFile(t, "doc.pdf", []byte("%PDF"))
	_, err = s.Analyze(context.Background(), path)
	assert.True(t, apperrors.IsUnsupportedFormat(err))

	path = testkit.WriteFile(t, "empty.csv", nil)
	_, err = s.Analyze(context.Background(), path)
	assert.True(t, apperrors.IsCorruptFile(err))
}

func TestAnalyze_CanceledContext(t *testing.T) {
	s := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Analyze(ctx, ordersCSV(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifySensitivity(t *testing.T) {
	s := newTestService(nil)

	assert.Equal(t, profiling.SensitivityFlags{PII: true}, s.ClassifySensitivity("Customer_Email_Address", nil))
	assert.Equal(t, profiling.SensitivityFlags{PII: true}, s.ClassifySensitivity("ref", []string{"123-45-6789"}))
	assert.Equal(t, profiling.SensitivityFlags{PHI: true, PCI: true}, s.ClassifySensitivity("treatment_payment", nil))
	assert.Equal(t, profiling.SensitivityFlags{}, s.ClassifySensitivity("region", []string{"north", "south"}))
}

func TestClassifySchema(t *testing.T) {
	s := newTestService(nil)

	fields := s.ClassifySchema(catalog.SchemaInfo{Sheets: []catalog.SheetSchema{{
		Name:    "Sheet1",
		Columns: []catalog.ColumnSchema{{Name: "diagnosis_code", DataType: profiling.TypeText}},
	}}})

	require.Len(t, fields, 1)
	assert.True(t, fields[0].ContainsPHI)
	assert.Equal(t, catalog.SensitivityCritical, fields[0].SensitivityLevel)
}

func TestImportFile(t *testing.T) {
	repo := new(MockAssetRepository)
	s := newTestService(repo)
	path := ordersCSV(t)
	internal := catalog.AccessInternal

	repo.On("CreateAsset", mock.Anything, mock.AnythingOfType("*catalog.AssetRecord")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*catalog.AssetRecord).ID = "asset-1"
		}).
		Return(nil).Once()

	record, err := s.ImportFile(context.Background(), path, catalog.ImportOverrides{
		AssetName:   "Orders",
		AccessLevel: &internal,
		IsPublic:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "asset-1", record.ID)
	assert.Equal(t, "Orders", record.Name)
	assert.True(t, record.IsSensitive)
	assert.True(t, record.IsPublic)
	assert.Equal(t, catalog.AccessRestricted, record.AccessLevel)
	require.Len(t, record.Fields, 3)
	assert.Equal(t, "email", record.Fields[1].FieldName)
	assert.Equal(t, catalog.SensitivityHigh, record.Fields[1].SensitivityLevel)
	assert.Equal(t, "orders.csv", record.Metadata.OriginalFilename)
	repo.AssertExpectations(t)
}

func TestImportFile_ValidationFailure(t *testing.T) {
	repo := new(MockAssetRepository)
	s := newTestService(repo)

	_, err := s.ImportFile(context.Background(), "/nope/missing.xlsx", catalog.ImportOverrides{})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "File does not exist")
	repo.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestImportFile_RepositoryFailure(t *testing.T) {
	repo := new(MockAssetRepository)
	s := newTestService(repo)

	repo.On("CreateAsset", mock.Anything, mock.Anything).
		Return(apperrors.DatabaseError("insert failed", fmt.Errorf("disk full"))).Once()

	_, err := s.ImportFile(context.Background(), ordersCSV(t), catalog.ImportOverrides{})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))
}

func TestImportFile_NoRepository(t *testing.T) {
	s := newTestService(nil)

	_, err := s.ImportFile(context.Background(), ordersCSV(t), catalog.ImportOverrides{})
	assert.Equal(t, apperrors.CodeInternalError, apperrors.GetCode(err))
}
