package excel

import (
	"path/filepath"
	"strings"

	apperrors "datacatalog/internal/errors"
)

// FileType identifies how a file is parsed
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
	FileTypeCSV  FileType = "csv"
)

// FlatFileSheetName names the single sheet of a flat file
const FlatFileSheetName = "Sheet1"

// SupportedExtensions lists the accepted file extensions in display order
var SupportedExtensions = []string{".xlsx", ".xls", ".csv"}

// Extension returns the lower-cased extension of path, including the dot
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsSupported reports whether ext (with dot, any case) is accepted
func IsSupported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// DetectFileType maps a path to its FileType by extension
func DetectFileType(path string) (FileType, error) {
	switch ext := Extension(path); ext {
	case ".xlsx":
		return FileTypeXLSX, nil
	case ".xls":
		return FileTypeXLS, nil
	case ".csv":
		return FileTypeCSV, nil
	default:
		return "", apperrors.UnsupportedFormat(ext)
	}
}

// IsWorkbook reports whether the file type can hold several sheets
func (t FileType) IsWorkbook() bool {
	return t == FileTypeXLSX || t == FileTypeXLS
}
