package ingestion

import (
	"fmt"
	"strconv"
	"time"
)

// ISOLayout is the layout used for datetime values in previews, stats and samples.
const ISOLayout = "2006-01-02T15:04:05"

// ValueType defines the storage type for a single cell
type ValueType string

const (
	ValueTypeMissing   ValueType = "missing"
	ValueTypeInteger   ValueType = "integer"
	ValueTypeFloat     ValueType = "float"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeString    ValueType = "string"
)

// Value is one typed cell. Exactly one payload field is meaningful, chosen by Type.
type Value struct {
	Type ValueType
	Int  int64
	Num  float64
	Bool bool
	Time time.Time
	Str  string
}

// NewMissingValue creates a null cell
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// NewIntegerValue creates an integer cell
func NewIntegerValue(n int64) Value {
	return Value{Type: ValueTypeInteger, Int: n}
}

// NewFloatValue creates a floating point cell
func NewFloatValue(f float64) Value {
	return Value{Type: ValueTypeFloat, Num: f}
}

// NewBooleanValue creates a boolean cell
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, Bool: b}
}

// NewTimestampValue creates a datetime cell
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, Time: t}
}

// NewStringValue creates a text cell; an empty string is a null cell
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, Str: s}
}

// IsMissing reports whether the cell is null
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// IsNumeric reports whether the cell holds an integer or a float
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeInteger || v.Type == ValueTypeFloat
}

// AsFloat64 returns the numeric payload as float64, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	switch v.Type {
	case ValueTypeInteger:
		return float64(v.Int)
	case ValueTypeFloat:
		return v.Num
	}
	return 0
}

// String returns the stringified cell as used for text statistics and content sampling.
// Null cells stringify to "".
func (v Value) String() string {
	switch v.Type {
	case ValueTypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case ValueTypeFloat:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueTypeBoolean:
		if v.Bool {
			return "True"
		}
		return "False"
	case ValueTypeTimestamp:
		return v.Time.Format(ISOLayout)
	case ValueTypeString:
		return v.Str
	}
	return ""
}

// Key returns a type-tagged representation used for equality (distinct counts, duplicate rows).
// Integers and floats share one numeric domain, so 1 and 1.0 are equal.
func (v Value) Key() string {
	switch {
	case v.IsMissing():
		return "\x00"
	case v.IsNumeric():
		return "number\x1f" + strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	}
	return fmt.Sprintf("%s\x1f%s", v.Type, v.String())
}

// Native returns the cell as a plain Go value for JSON previews
func (v Value) Native() interface{} {
	switch v.Type {
	case ValueTypeInteger:
		return v.Int
	case ValueTypeFloat:
		return v.Num
	case ValueTypeBoolean:
		return v.Bool
	case ValueTypeTimestamp:
		return v.Time.Format(ISOLayout)
	case ValueTypeString:
		return v.Str
	}
	return nil
}

// Row is one record aligned to TabularDataset.Columns
type Row []Value

// TabularDataset is one sheet loaded into memory. Every row has exactly len(Columns) cells.
type TabularDataset struct {
	Name    string
	Columns []string
	Rows    []Row
}

// RowCount returns the number of data rows
func (d *TabularDataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of columns
func (d *TabularDataset) ColumnCount() int {
	return len(d.Columns)
}

// Column returns the cells of column idx in row order
func (d *TabularDataset) Column(idx int) []Value {
	values := make([]Value, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[idx]
	}
	return values
}

// Record returns row i as a column-name keyed map of native values
func (d *TabularDataset) Record(i int) map[string]interface{} {
	record := make(map[string]interface{}, len(d.Columns))
	for j, name := range d.Columns {
		record[name] = d.Rows[i][j].Native()
	}
	return record
}

// SheetData is the loader output for one sheet: either a dataset or the reason it failed to load
type SheetData struct {
	Name    string
	Dataset *TabularDataset
	Err     error
}
