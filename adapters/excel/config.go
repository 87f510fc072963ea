package excel

import (
	"datacatalog/adapters/datareadiness/coercer"
	"datacatalog/domain/datareadiness/profiling"
)

// ExcelConfig holds configuration for reading and profiling uploaded files
type ExcelConfig struct {
	CoercionConfig  coercer.CoercionConfig    `json:"coercion_config" yaml:"coercion"`
	ProfilingConfig profiling.ProfilingConfig `json:"profiling_config" yaml:"profiling"`
	// SkipBlankRows drops rows whose cells are all blank
	SkipBlankRows bool `json:"skip_blank_rows" yaml:"skip_blank_rows"`
}

// DefaultExcelConfig returns sensible defaults for Excel processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig:  coercer.DefaultCoercionConfig(),
		ProfilingConfig: profiling.DefaultProfilingConfig(),
		SkipBlankRows:   true,
	}
}
