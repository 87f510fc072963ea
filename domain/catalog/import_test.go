package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportOverrides_Apply(t *testing.T) {
	internal := AccessInternal

	record := AssetRecord{Name: "orders", Description: "generated", Tags: []string{TagHighQuality}, AccessLevel: AccessInternal}
	ImportOverrides{AssetName: "Orders 2026", Tags: []string{"finance"}, IsPublic: true}.Apply(&record)

	assert.Equal(t, "Orders 2026", record.Name)
	assert.Equal(t, "generated", record.Description)
	assert.Equal(t, []string{"finance"}, record.Tags)
	assert.True(t, record.IsPublic)
	assert.Equal(t, AccessInternal, record.AccessLevel)

	sensitive := AssetRecord{IsSensitive: true, AccessLevel: AccessRestricted}
	ImportOverrides{AccessLevel: &internal}.Apply(&sensitive)
	assert.Equal(t, AccessRestricted, sensitive.AccessLevel)
}

func TestParseAccessLevel(t *testing.T) {
	level, ok := ParseAccessLevel("Restricted")
	assert.True(t, ok)
	assert.Equal(t, AccessRestricted, level)

	_, ok = ParseAccessLevel("Public")
	assert.False(t, ok)
}
