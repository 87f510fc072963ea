package profiling

import (
	"errors"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"datacatalog/domain/datareadiness/ingestion"
	domain "datacatalog/domain/datareadiness/profiling"
)

// ErrNoValues is returned when a summary is requested over zero values
var ErrNoValues = errors.New("no non-null values to summarize")

// NumericSummary computes min/max/mean/median and sample standard deviation.
// Mean and standard deviation are rounded to two decimals; the deviation is
// absent with fewer than two values.
func NumericSummary(data []float64) (*domain.NumericStats, error) {
	if len(data) == 0 {
		return nil, ErrNoValues
	}

	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}

	summary := &domain.NumericStats{
		Min:    min,
		Max:    max,
		Mean:   Round(mean, 2),
		Median: median,
	}
	if len(data) > 1 {
		stdDev, err := stats.StandardDeviationSample(data)
		if err != nil {
			return nil, err
		}
		rounded := Round(stdDev, 2)
		summary.StdDev = &rounded
	}
	return summary, nil
}

// TextSummary computes character-length statistics, the topN most frequent
// values and the Shannon entropy of the value distribution.
func TextSummary(values []string, topN int) (*domain.TextStats, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}

	lengths := make([]float64, len(values))
	for i, v := range values {
		lengths[i] = float64(utf8.RuneCountInString(v))
	}
	minLen, err := stats.Min(lengths)
	if err != nil {
		return nil, err
	}
	maxLen, err := stats.Max(lengths)
	if err != nil {
		return nil, err
	}
	avgLen, err := stats.Mean(lengths)
	if err != nil {
		return nil, err
	}

	counts := countValues(values)

	probs := make([]float64, len(counts))
	total := float64(len(values))
	for i, vc := range counts {
		probs[i] = float64(vc.Count) / total
	}

	if topN < 0 {
		topN = 0
	}
	if topN > len(counts) {
		topN = len(counts)
	}
	return &domain.TextStats{
		MinLength:  int(minLen),
		MaxLength:  int(maxLen),
		AvgLength:  Round(avgLen, 2),
		MostCommon: counts[:topN],
		Entropy:    Round(stat.Entropy(probs), 4),
	}, nil
}

// countValues returns distinct values by descending count, ties in first-seen order
func countValues(values []string) []domain.ValueCount {
	index := make(map[string]int, len(values))
	var counts []domain.ValueCount
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, domain.ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// DatetimeSummary reports the earliest and latest instants and the whole days between them
func DatetimeSummary(times []time.Time) (*domain.DatetimeStats, error) {
	if len(times) == 0 {
		return nil, ErrNoValues
	}
	min, max := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	return &domain.DatetimeStats{
		Min:      min.Format(ingestion.ISOLayout),
		Max:      max.Format(ingestion.ISOLayout),
		SpanDays: int((max.Unix() - min.Unix()) / 86400),
	}, nil
}

// BooleanSummary counts true and false values
func BooleanSummary(values []bool) (*domain.BooleanStats, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	summary := &domain.BooleanStats{}
	for _, v := range values {
		if v {
			summary.TrueCount++
		} else {
			summary.FalseCount++
		}
	}
	return summary, nil
}
