package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"datacatalog/adapters/datareadiness/coercer"
	"datacatalog/domain/datareadiness/ingestion"
	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/logger"
)

var errNoHeader = errors.New("no columns to parse from file")

// DataReader loads Excel workbooks and CSV files into typed datasets
type DataReader struct {
	config  ExcelConfig
	coercer *coercer.TypeCoercer
	log     zerolog.Logger
}

// NewDataReader creates a reader that handles both workbook and CSV files
func NewDataReader(config ExcelConfig) *DataReader {
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		log:     logger.Component("DataReader"),
	}
}

// Coercer exposes the cell coercer so profiling infers types with the same rules
func (r *DataReader) Coercer() *coercer.TypeCoercer {
	return r.coercer
}

// checkFile resolves the path and its file type before anything is parsed
func checkFile(filePath string) (FileType, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.FileNotFound(filePath)
		}
		return "", apperrors.CorruptFile(filePath, err)
	}
	if info.IsDir() {
		return "", apperrors.FileNotFound(filePath)
	}
	return DetectFileType(filePath)
}

// ReadSheets loads every sheet of the file. A workbook sheet that fails to load is
// returned with Err set; errors returned from ReadSheets abort the whole file.
func (r *DataReader) ReadSheets(filePath string) ([]ingestion.SheetData, error) {
	fileType, err := checkFile(filePath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r.log.Debug().Str("file", filePath).Str("type", string(fileType)).Msg("reading file")

	if fileType == FileTypeCSV {
		dataset, err := r.readCSV(filePath)
		if err != nil {
			return nil, apperrors.CorruptFile(filePath, err)
		}
		r.log.Debug().
			Int("rows", dataset.RowCount()).
			Int("columns", dataset.ColumnCount()).
			Float64("elapsed_ms", msSince(start)).
			Msg("CSV file read")
		return []ingestion.SheetData{{Name: FlatFileSheetName, Dataset: dataset}}, nil
	}

	return r.readWorkbook(filePath)
}

// readWorkbook loads each sheet independently so one bad sheet does not block the others
func (r *DataReader) readWorkbook(filePath string) ([]ingestion.SheetData, error) {
	openStart := time.Now()
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.CorruptFile(filePath, err)
	}
	defer f.Close()
	r.log.Debug().Float64("elapsed_ms", msSince(openStart)).Msg("workbook opened")

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, apperrors.CorruptFile(filePath, errors.New("no sheets found in workbook"))
	}

	sheets := make([]ingestion.SheetData, 0, len(sheetNames))
	for _, name := range sheetNames {
		readStart := time.Now()
		dataset, err := r.readSheet(f, name)
		if err != nil {
			r.log.Warn().Err(err).Str("sheet", name).Msg("sheet could not be loaded")
			sheets = append(sheets, ingestion.SheetData{Name: name, Err: err})
			continue
		}
		r.log.Debug().
			Str("sheet", name).
			Int("rows", dataset.RowCount()).
			Int("columns", dataset.ColumnCount()).
			Float64("elapsed_ms", msSince(readStart)).
			Msg("sheet read")
		sheets = append(sheets, ingestion.SheetData{Name: name, Dataset: dataset})
	}
	return sheets, nil
}

// readSheet streams one worksheet through the excelize row iterator. A second
// iterator over the same sheet yields the unformatted cell values, so numbers
// shown as "2,468", "$1,234.50" or "50%" are still read as numbers.
func (r *DataReader) readSheet(f *excelize.File, sheet string) (*ingestion.TabularDataset, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rawRows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rawRows.Close()

	var header []string
	var records [][]string
	width := 0
	rowNum := 0
	for rows.Next() {
		rowNum++
		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		var raw []string
		if rawRows.Next() {
			if raw, err = rawRows.Columns(excelize.Options{RawCellValue: true}); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}
		if header == nil {
			// leading empty rows are not a header
			if isBlankRecord(cells) {
				continue
			}
			header = cells
			width = len(cells)
			continue
		}
		if r.config.SkipBlankRows && isBlankRecord(cells) {
			continue
		}
		cells = r.preferRawNumbers(cells, raw)
		if len(cells) > width {
			width = len(cells)
		}
		records = append(records, cells)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}

	// cells past the last header cell get generated column names
	for len(header) < width {
		header = append(header, "")
	}
	return r.buildDataset(sheet, header, records), nil
}

// preferRawNumbers swaps a formatted cell for its raw value when the formatted
// text would read as plain text but the stored value is a number. Formatted
// dates, booleans and plain numbers keep their rendered text.
func (r *DataReader) preferRawNumbers(cells, raw []string) []string {
	for i, text := range cells {
		if i >= len(raw) || raw[i] == text {
			continue
		}
		if r.coercer.CoerceCell(text).Type != ingestion.ValueTypeString {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw[i]), 64); err == nil {
			cells[i] = raw[i]
		}
	}
	return cells
}

// readCSV loads a flat file as a single sheet. A record wider than the header is an error.
func (r *DataReader) readCSV(filePath string) (*ingestion.TabularDataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := newCSVReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errNoHeader
	}
	if err != nil {
		return nil, err
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(record))
		}
		if r.config.SkipBlankRows && isBlankRecord(record) {
			continue
		}
		records = append(records, record)
	}

	return r.buildDataset(FlatFileSheetName, header, records), nil
}

// PeekFirstRecord reads only the header record of the file's first sheet.
// It is the cheap readability probe used before a full import.
func (r *DataReader) PeekFirstRecord(filePath string) ([]string, error) {
	fileType, err := checkFile(filePath)
	if err != nil {
		return nil, err
	}

	if fileType == FileTypeCSV {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		header, err := newCSVReader(file).Read()
		if err == io.EOF {
			return nil, errNoHeader
		}
		return header, err
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, errors.New("no sheets found in workbook")
	}
	rows, err := f.Rows(sheetNames[0])
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		if !isBlankRecord(cells) {
			return cells, nil
		}
	}
	// an empty first sheet is readable, it just has no header
	return []string{}, rows.Error()
}

func (r *DataReader) buildDataset(name string, header []string, records [][]string) *ingestion.TabularDataset {
	columns := NormalizeHeaders(header)
	rows := make([]ingestion.Row, len(records))
	for i, record := range records {
		rows[i] = r.coercer.CoerceRow(record, len(columns))
	}
	return &ingestion.TabularDataset{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}
}

// NormalizeHeaders trims header cells, names empty ones "Unnamed: <i>" and
// suffixes repeats as "<name>.<n>" so every column name is unique.
func NormalizeHeaders(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	repeats := make(map[string]int, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for used[candidate] {
			repeats[name]++
			candidate = fmt.Sprintf("%s.%d", name, repeats[name])
		}
		used[candidate] = true
		columns[i] = candidate
	}
	return columns
}

// newCSVReader decodes UTF-8 input, dropping a leading byte order mark
func newCSVReader(src io.Reader) *csv.Reader {
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func isBlankRecord(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
