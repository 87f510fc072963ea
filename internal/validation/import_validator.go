package validation

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"datacatalog/adapters/excel"
	"datacatalog/internal/logger"
)

// DefaultMaxFileSize is the upload ceiling applied before analysis
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

const bytesPerMB = 1024 * 1024

// HeaderReader reads the first record of a file without loading the rest
type HeaderReader interface {
	PeekFirstRecord(filePath string) ([]string, error)
}

// ImportValidator runs the cheap checks that gate a full import
type ImportValidator struct {
	reader      HeaderReader
	maxFileSize int64
	log         zerolog.Logger
}

// NewImportValidator creates a validator; a non-positive maxFileSize uses DefaultMaxFileSize
func NewImportValidator(reader HeaderReader, maxFileSize int64) *ImportValidator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &ImportValidator{
		reader:      reader,
		maxFileSize: maxFileSize,
		log:         logger.Component("ImportValidator"),
	}
}

// MaxFileSize returns the size ceiling in bytes
func (v *ImportValidator) MaxFileSize() int64 {
	return v.maxFileSize
}

// Validate reports whether filePath can be imported, with every issue found.
// A missing file skips the size check and the read probe; an unsupported
// extension skips the read probe.
func (v *ImportValidator) Validate(filePath string) (bool, []string) {
	var issues []string

	info, err := os.Stat(filePath)
	exists := err == nil && !info.IsDir()
	if !exists {
		issues = append(issues, "File does not exist")
	}

	ext := excel.Extension(filePath)
	supported := excel.IsSupported(ext)
	if !supported {
		issues = append(issues, fmt.Sprintf("Unsupported file format: %s", ext))
	}

	if exists && info.Size() > v.maxFileSize {
		issues = append(issues, fmt.Sprintf("File too large: %.1fMB (max: %.1fMB)",
			float64(info.Size())/bytesPerMB, float64(v.maxFileSize)/bytesPerMB))
	}

	if exists && supported {
		if _, err := v.reader.PeekFirstRecord(filePath); err != nil {
			issues = append(issues, fmt.Sprintf("File read error: %v", err))
		}
	}

	if len(issues) > 0 {
		v.log.Info().Str("file", filePath).Strs("issues", issues).Msg("file rejected for import")
	}
	return len(issues) == 0, issues
}

// IssuesError joins validation issues into one error
type IssuesError []string

func (e IssuesError) Error() string {
	return strings.Join(e, "; ")
}
