package profiling

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 88.89, Round(800.0/9.0, 2))
	assert.Equal(t, 0.889, Round(0.88888, 3))
	assert.Equal(t, 2.5, Round(2.45, 1))
	assert.Equal(t, -1.24, Round(-1.235, 2))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 100.0, Percentage(4, 4))
}

func TestNumericSummary(t *testing.T) {
	summary, err := NumericSummary([]float64{4, 1, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 4.0, summary.Max)
	assert.Equal(t, 2.5, summary.Mean)
	assert.Equal(t, 2.5, summary.Median)
	require.NotNil(t, summary.StdDev)
	assert.Equal(t, 1.29, *summary.StdDev)
}

func TestNumericSummary_SingleValue(t *testing.T) {
	summary, err := NumericSummary([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, summary.Median)
	assert.Nil(t, summary.StdDev)
}

func TestNumericSummary_Empty(t *testing.T) {
	_, err := NumericSummary(nil)
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestTextSummary(t *testing.T) {
	values := []string{"b", "a", "ccc", "a", "b", "dd", "é", "ff", "g"}
	summary, err := TextSummary(values, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.MinLength)
	assert.Equal(t, 3, summary.MaxLength)
	assert.Equal(t, 1.44, summary.AvgLength)
	require.Len(t, summary.MostCommon, 3)
	assert.Equal(t, "b", summary.MostCommon[0].Value)
	assert.Equal(t, 2, summary.MostCommon[0].Count)
	assert.Equal(t, "a", summary.MostCommon[1].Value)
	assert.Equal(t, "ccc", summary.MostCommon[2].Value)
	assert.Greater(t, summary.Entropy, 0.0)
}

func TestTextSummary_SingleDistinctValue(t *testing.T) {
	summary, err := TextSummary([]string{"x", "x"}, 5)
	require.NoError(t, err)
	assert.Len(t, summary.MostCommon, 1)
	assert.Equal(t, 0.0, summary.Entropy)
}

func TestDatetimeSummary(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 6, 0, 0, 0, time.UTC),
	}
	summary, err := DatetimeSummary(times)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01T00:00:00", summary.Min)
	assert.Equal(t, "2024-03-10T12:00:00", summary.Max)
	assert.Equal(t, 69, summary.SpanDays)
}

func TestDatetimeSummary_SpanBeyondDurationRange(t *testing.T) {
	summary, err := DatetimeSummary([]time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "1700-01-01T00:00:00", summary.Min)
	assert.Equal(t, 116877, summary.SpanDays)
}

func TestBooleanSummary(t *testing.T) {
	summary, err := BooleanSummary([]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TrueCount)
	assert.Equal(t, 1, summary.FalseCount)

	_, err = BooleanSummary(nil)
	assert.Error(t, err)
}
