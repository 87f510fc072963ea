package datareadiness

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/adapters/datareadiness/coercer"
	"datacatalog/domain/datareadiness/ingestion"
	"datacatalog/domain/datareadiness/profiling"
	"datacatalog/internal/sensitivity"
)

func newTestProfiler() *ProfilerAdapter {
	return NewProfilerAdapter(
		coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		sensitivity.NewDefaultClassifier(),
		profiling.DefaultProfilingConfig(),
	)
}

func cells(raw ...string) []ingestion.Value {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	values := make([]ingestion.Value, len(raw))
	for i, r := range raw {
		values[i] = c.CoerceCell(r)
	}
	return values
}

func TestProfileColumn_Numeric(t *testing.T) {
	col := newTestProfiler().ProfileColumn("amount", cells("10", "20", "", "30"))

	assert.Equal(t, profiling.TypeInteger, col.InferredType)
	assert.Equal(t, 4, col.RowCount)
	assert.Equal(t, 3, col.NonNullCount)
	assert.Equal(t, 1, col.NullCount)
	assert.Equal(t, 25.0, col.NullPercentage)
	assert.Equal(t, 3, col.UniqueCount)
	assert.False(t, col.IsUnique)
	assert.False(t, col.ContainsPII)

	require.NotNil(t, col.Stats.Numeric)
	assert.Nil(t, col.Stats.Text)
	assert.True(t, col.Stats.Matches(col.InferredType))
	assert.Equal(t, 10.0, col.Stats.Numeric.Min)
	assert.Equal(t, 30.0, col.Stats.Numeric.Max)
	assert.Equal(t, 20.0, col.Stats.Numeric.Mean)
	assert.Equal(t, 20.0, col.Stats.Numeric.Median)
	require.NotNil(t, col.Stats.Numeric.StdDev)
	assert.Equal(t, 10.0, *col.Stats.Numeric.StdDev)
}

func TestProfileColumn_Text(t *testing.T) {
	col := newTestProfiler().ProfileColumn("city", cells("Oslo", "Lima", "Oslo", "Rome", "Bern", "Kyiv", "Lima", "Oslo"))

	assert.Equal(t, profiling.TypeText, col.InferredType)
	require.NotNil(t, col.Stats.Text)
	assert.Equal(t, 4, col.Stats.Text.MinLength)
	assert.Equal(t, 4.0, col.Stats.Text.AvgLength)
	require.Len(t, col.Stats.Text.MostCommon, 5)
	assert.Equal(t, profiling.ValueCount{Value: "Oslo", Count: 3}, col.Stats.Text.MostCommon[0])
	assert.Equal(t, profiling.ValueCount{Value: "Lima", Count: 2}, col.Stats.Text.MostCommon[1])
	assert.Equal(t, "Rome", col.Stats.Text.MostCommon[2].Value)
}

func TestProfileColumn_DatetimeAndBoolean(t *testing.T) {
	p := newTestProfiler()

	dates := p.ProfileColumn("signup", cells("2024-01-01", "2024-02-01", "2024-01-15"))
	assert.Equal(t, profiling.TypeDatetime, dates.InferredType)
	require.NotNil(t, dates.Stats.Datetime)
	assert.Equal(t, "2024-01-01T00:00:00", dates.Stats.Datetime.Min)
	assert.Equal(t, "2024-02-01T00:00:00", dates.Stats.Datetime.Max)
	assert.Equal(t, 31, dates.Stats.Datetime.SpanDays)
	assert.True(t, dates.IsUnique)

	flags := p.ProfileColumn("active", cells("true", "FALSE", "True"))
	assert.Equal(t, profiling.TypeBoolean, flags.InferredType)
	require.NotNil(t, flags.Stats.Boolean)
	assert.Equal(t, 2, flags.Stats.Boolean.TrueCount)
	assert.Equal(t, 2, flags.UniqueCount)
}

func TestProfileColumn_EmptyAndAllNull(t *testing.T) {
	p := newTestProfiler()

	empty := p.ProfileColumn("email", nil)
	assert.Equal(t, 0.0, empty.NullPercentage)
	assert.False(t, empty.IsUnique)
	assert.False(t, empty.ContainsPII)
	assert.True(t, empty.Stats.IsEmpty())
	assert.Equal(t, profiling.TypeUnknown, empty.InferredType)

	nulls := p.ProfileColumn("notes", cells("", "NA"))
	assert.Equal(t, 100.0, nulls.NullPercentage)
	assert.True(t, nulls.Stats.IsEmpty())
	assert.Equal(t, 0, nulls.UniqueCount)
}

func TestProfileColumn_Sensitivity(t *testing.T) {
	p := newTestProfiler()

	byName := p.ProfileColumn("Customer_Email_Address", cells("x", "y"))
	assert.True(t, byName.ContainsPII)
	assert.True(t, byName.Sensitivity.PII)

	byContent := p.ProfileColumn("comment", cells("see 123-45-6789", "ok"))
	assert.True(t, byContent.ContainsPII)

	health := p.ProfileColumn("diagnosis_code", cells("A10", "B20"))
	assert.True(t, health.ContainsPII)
	assert.True(t, health.Sensitivity.PHI)
	assert.False(t, health.Sensitivity.PII)
}

func TestProfileSheet(t *testing.T) {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	ds := &ingestion.TabularDataset{
		Name:    "Sheet1",
		Columns: []string{"id", "email", "amount"},
		Rows: []ingestion.Row{
			c.CoerceRow([]string{"1", "a@example.com", "10"}, 3),
			c.CoerceRow([]string{"2", "b@example.com", ""}, 3),
			c.CoerceRow([]string{"3", "c@example.com", "30.5"}, 3),
		},
	}

	sheet := newTestProfiler().ProfileSheet(ds)
	assert.Equal(t, 3, sheet.RowCount)
	assert.Equal(t, 3, sheet.ColumnCount)
	assert.Equal(t, 1, sheet.NullCount)
	assert.Equal(t, 88.89, sheet.Completeness)
	assert.Equal(t, 0, sheet.DuplicateRowCount)
	require.Len(t, sheet.Preview, 3)
	assert.Equal(t, int64(1), sheet.Preview[0]["id"])
	assert.Nil(t, sheet.Preview[1]["amount"])
	assert.Equal(t, profiling.TypeFloat, sheet.Columns[2].InferredType)
	assert.True(t, sheet.Columns[1].ContainsPII)
}

func TestProfileSheet_DuplicatesAndPreviewLimit(t *testing.T) {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	var rows []ingestion.Row
	for _, r := range [][]string{{"a", "1"}, {"b", "2"}, {"a", "1"}, {"a", "1.0"}, {"b", "2"}, {"c", ""}, {"c", ""}} {
		rows = append(rows, c.CoerceRow(r, 2))
	}
	ds := &ingestion.TabularDataset{Name: "dups", Columns: []string{"k", "v"}, Rows: rows}

	sheet := newTestProfiler().ProfileSheet(ds)
	assert.Equal(t, 4, sheet.DuplicateRowCount)
	assert.Len(t, sheet.Preview, 5)
}

func TestProfileSheet_NoRows(t *testing.T) {
	ds := &ingestion.TabularDataset{Name: "blank", Columns: []string{"a", "b"}}
	sheet := newTestProfiler().ProfileSheet(ds)

	assert.Equal(t, 0.0, sheet.Completeness)
	assert.NotNil(t, sheet.Preview)
	for _, col := range sheet.Columns {
		assert.Equal(t, 0.0, col.NullPercentage)
		assert.True(t, col.Stats.IsEmpty())
		assert.False(t, col.ContainsPII)
	}
}

func TestProfileFile_FailedSheetExcludedFromTotals(t *testing.T) {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	ds := func(name string, n int) *ingestion.TabularDataset {
		d := &ingestion.TabularDataset{Name: name, Columns: []string{"x", "y"}}
		for i := 0; i < n; i++ {
			d.Rows = append(d.Rows, c.CoerceRow([]string{"1", "2"}, 2))
		}
		return d
	}
	sheets := []ingestion.SheetData{
		{Name: "one", Dataset: ds("one", 2)},
		{Name: "two", Err: errors.New("row 2: invalid cell name")},
		{Name: "three", Dataset: ds("three", 4)},
	}
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	analysis := newTestProfiler().ProfileFile("/tmp/book.xlsx", 2048, sheets, at)
	require.Len(t, analysis.Sheets, 3)
	assert.Equal(t, 6, analysis.TotalRows)
	assert.Equal(t, 4, analysis.TotalColumns)
	assert.Equal(t, at, analysis.AnalysisTimestamp)
	assert.True(t, analysis.Sheets[1].Failed())
	assert.Equal(t, "Could not analyze sheet: row 2: invalid cell name", analysis.Sheets[1].Error)
	assert.Len(t, analysis.ParsedSheets(), 2)

	raw, err := json.Marshal(analysis.Sheets[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"two","error":"Could not analyze sheet: row 2: invalid cell name"}`, string(raw))
}
