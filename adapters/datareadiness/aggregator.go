package datareadiness

import (
	"strings"
	"time"

	"datacatalog/domain/datareadiness/ingestion"
	"datacatalog/domain/datareadiness/profiling"
	profstats "datacatalog/internal/profiling"
)

// sheetErrorPrefix starts the error recorded for a sheet that could not be loaded
const sheetErrorPrefix = "Could not analyze sheet: "

// ProfileSheet profiles every column of a dataset and rolls the results up
func (p *ProfilerAdapter) ProfileSheet(dataset *ingestion.TabularDataset) profiling.SheetProfile {
	start := time.Now()
	sheet := profiling.SheetProfile{
		Name:        dataset.Name,
		RowCount:    dataset.RowCount(),
		ColumnCount: dataset.ColumnCount(),
		Columns:     make([]profiling.ColumnProfile, 0, dataset.ColumnCount()),
	}

	for idx, name := range dataset.Columns {
		column := p.ProfileColumn(name, dataset.Column(idx))
		sheet.NullCount += column.NullCount
		sheet.Columns = append(sheet.Columns, column)
	}

	totalCells := sheet.RowCount * sheet.ColumnCount
	sheet.Completeness = profstats.Percentage(totalCells-sheet.NullCount, totalCells)
	sheet.DuplicateRowCount = countDuplicateRows(dataset.Rows)
	sheet.Preview = p.preview(dataset)

	p.log.Debug().
		Str("sheet", sheet.Name).
		Int("rows", sheet.RowCount).
		Int("columns", sheet.ColumnCount).
		Float64("completeness", sheet.Completeness).
		Float64("elapsed_ms", float64(time.Since(start).Nanoseconds())/1e6).
		Msg("sheet profiled")

	return sheet
}

// ProfileFile profiles each loaded sheet and builds the file-level analysis.
// Failed sheets stay listed but add nothing to the totals.
func (p *ProfilerAdapter) ProfileFile(filePath string, sizeBytes int64, sheets []ingestion.SheetData, analyzedAt time.Time) *profiling.FileAnalysis {
	analysis := &profiling.FileAnalysis{
		FilePath:          filePath,
		FileSizeBytes:     sizeBytes,
		Sheets:            make([]profiling.SheetProfile, 0, len(sheets)),
		AnalysisTimestamp: analyzedAt,
	}

	for _, data := range sheets {
		if data.Err != nil || data.Dataset == nil {
			msg := "sheet has no data"
			if data.Err != nil {
				msg = data.Err.Error()
			}
			analysis.Sheets = append(analysis.Sheets, profiling.SheetProfile{
				Name:  data.Name,
				Error: sheetErrorPrefix + msg,
			})
			continue
		}
		sheet := p.ProfileSheet(data.Dataset)
		analysis.TotalRows += sheet.RowCount
		analysis.TotalColumns += sheet.ColumnCount
		analysis.Sheets = append(analysis.Sheets, sheet)
	}

	p.log.Info().
		Str("file", filePath).
		Int("sheets", len(analysis.Sheets)).
		Int("total_rows", analysis.TotalRows).
		Int("total_columns", analysis.TotalColumns).
		Msg("file profiled")

	return analysis
}

func (p *ProfilerAdapter) preview(dataset *ingestion.TabularDataset) []map[string]interface{} {
	n := p.config.PreviewRows
	if n > dataset.RowCount() {
		n = dataset.RowCount()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		rows[i] = dataset.Record(i)
	}
	return rows
}

// countDuplicateRows counts rows equal in every cell to an earlier row
func countDuplicateRows(rows []ingestion.Row) int {
	seen := make(map[string]struct{}, len(rows))
	duplicates := 0
	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		for _, v := range row {
			b.WriteString(v.Key())
			b.WriteByte('\x1e')
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}
