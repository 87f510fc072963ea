package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"datacatalog/adapters/excel"
	"datacatalog/internal/testkit"
)

func newValidator(maxFileSize int64) *ImportValidator {
	return NewImportValidator(excel.NewDataReader(excel.DefaultExcelConfig()), maxFileSize)
}

func TestValidate_ReadableCSV(t *testing.T) {
	path := testkit.WriteCSV(t, "ok.csv", [][]string{{"id", "name"}, {"1", "a"}})

	ok, issues := newValidator(0).Validate(path)

	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestValidate_ReadableWorkbook(t *testing.T) {
	path := testkit.WriteWorkbook(t, "ok.xlsx", testkit.Sheet{Name: "Data", Rows: testkit.Strings([]string{"id"}, []string{"1"})})

	ok, issues := newValidator(0).Validate(path)

	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestValidate_MissingFileStillChecksFormat(t *testing.T) {
	ok, issues := newValidator(0).Validate("/does/not/exist.txt")

	assert.False(t, ok)
	assert.Equal(t, []string{"File does not exist", "Unsupported file format: .txt"}, issues)

	ok, issues = newValidator(0).Validate("/does/not/exist.csv")

	assert.False(t, ok)
	assert.Equal(t, []string{"File does not exist"}, issues)
}

func TestValidate_UnsupportedFormatSkipsRead(t *testing.T) {
	path := testkit.WriteFile(t, "notes.TXT", []byte("hello"))

	ok, issues := newValidator(0).Validate(path)

	assert.False(t, ok)
	assert.Equal(t, []string{"Unsupported file format: .txt"}, issues)
}

func TestValidate_TooLarge(t *testing.T) {
	content := "id\n" + strings.Repeat("12345\n", 262144)
	path := testkit.WriteFile(t, "big.csv", []byte(content))

	ok, issues := newValidator(1024 * 1024).Validate(path)

	assert.False(t, ok)
	assert.Equal(t, []string{"File too large: 1.5MB (max: 1.0MB)"}, issues)
}

func TestValidate_IssuesAccumulate(t *testing.T) {
	path := testkit.WriteFile(t, "big.json", []byte(strings.Repeat("x", 2048)))

	ok, issues := newValidator(1024).Validate(path)

	assert.False(t, ok)
	assert.Equal(t, []string{
		"Unsupported file format: .json",
		"File too large: 0.0MB (max: 0.0MB)",
	}, issues)
}

func TestValidate_UnreadableFile(t *testing.T) {
	path := testkit.WriteFile(t, "fake.xlsx", []byte("definitely not a zip archive"))

	ok, issues := newValidator(0).Validate(path)

	assert.False(t, ok)
	if assert.Len(t, issues, 1) {
		assert.True(t, strings.HasPrefix(issues[0], "File read error: "), issues[0])
	}
}

func TestValidate_EmptyCSV(t *testing.T) {
	path := testkit.WriteFile(t, "empty.csv", nil)

	ok, issues := newValidator(0).Validate(path)

	assert.False(t, ok)
	assert.Equal(t, []string{"File read error: no columns to parse from file"}, issues)
}
