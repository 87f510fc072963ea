package testkit

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a generated workbook. The first row is the header.
type Sheet struct {
	Name string
	Rows [][]interface{}
	// NumFmts maps a 1-based column to a built-in number format applied below the header
	NumFmts map[int]int
}

// brokenWorksheet parses as XML but carries a cell reference excelize rejects
const brokenWorksheet = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
	`<row r="1"><c r="A1" t="inlineStr"><is><t>id</t></is></c></row>` +
	`<row r="2"><c r="NOT-A-CELL" t="inlineStr"><is><t>1</t></is></c></row>` +
	`</sheetData></worksheet>`

// WriteCSV writes records to name inside a fresh temp dir and returns the path
func WriteCSV(t testing.TB, name string, records [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.WriteAll(records))
	return path
}

// WriteFile writes raw bytes to name inside a fresh temp dir and returns the path
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// WriteWorkbook builds an xlsx file with the given sheets in order and returns the path
func WriteWorkbook(t testing.TB, name string, sheets ...Sheet) string {
	t.Helper()
	require.NotEmpty(t, sheets)

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sheet.Name, cell, &values))
		}
		for col, numFmt := range sheet.NumFmts {
			if len(sheet.Rows) < 2 {
				break
			}
			style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
			require.NoError(t, err)
			first, err := excelize.CoordinatesToCellName(col, 2)
			require.NoError(t, err)
			last, err := excelize.CoordinatesToCellName(col, len(sheet.Rows))
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle(sheet.Name, first, last, style))
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// CorruptWorksheet replaces the XML part of the index-th sheet (1-based, creation
// order) so that reading its rows fails while the rest of the workbook stays intact.
func CorruptWorksheet(t testing.TB, path string, index int) {
	t.Helper()
	part := fmt.Sprintf("xl/worksheets/sheet%d.xml", index)

	src, err := zip.OpenReader(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	dst := zip.NewWriter(&buf)
	replaced := false
	for _, entry := range src.File {
		w, err := dst.Create(entry.Name)
		require.NoError(t, err)
		if entry.Name == part {
			_, err = w.Write([]byte(brokenWorksheet))
			require.NoError(t, err)
			replaced = true
			continue
		}
		r, err := entry.Open()
		require.NoError(t, err)
		_, err = io.Copy(w, r)
		r.Close()
		require.NoError(t, err)
	}
	require.NoError(t, dst.Close())
	require.NoError(t, src.Close())
	require.True(t, replaced, "worksheet part %s not found", part)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// Strings converts header and data rows of strings into workbook rows
func Strings(rows ...[]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
