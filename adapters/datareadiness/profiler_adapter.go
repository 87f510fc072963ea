package datareadiness

import (
	"time"

	"github.com/rs/zerolog"

	"datacatalog/adapters/datareadiness/coercer"
	"datacatalog/domain/datareadiness/ingestion"
	"datacatalog/domain/datareadiness/profiling"
	"datacatalog/internal/logger"
	profstats "datacatalog/internal/profiling"
	"datacatalog/internal/sensitivity"
)

// ProfilerAdapter profiles columns, sheets and whole files
type ProfilerAdapter struct {
	coercer    *coercer.TypeCoercer
	classifier *sensitivity.Classifier
	config     profiling.ProfilingConfig
	log        zerolog.Logger
}

// NewProfilerAdapter creates a new profiler adapter
func NewProfilerAdapter(typeCoercer *coercer.TypeCoercer, classifier *sensitivity.Classifier, config profiling.ProfilingConfig) *ProfilerAdapter {
	return &ProfilerAdapter{
		coercer:    typeCoercer,
		classifier: classifier,
		config:     config,
		log:        logger.Component("Profiler"),
	}
}

// ProfileColumn computes the profile of one column. A stat block that cannot be
// computed is left empty; the rest of the profile is still returned.
func (p *ProfilerAdapter) ProfileColumn(name string, values []ingestion.Value) profiling.ColumnProfile {
	profile := profiling.ColumnProfile{
		Name:     name,
		RowCount: len(values),
	}

	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v.IsMissing() {
			profile.NullCount++
			continue
		}
		profile.NonNullCount++
		distinct[v.Key()] = struct{}{}
	}
	profile.NullPercentage = profstats.Percentage(profile.NullCount, profile.RowCount)
	profile.UniqueCount = len(distinct)
	profile.IsUnique = profile.RowCount > 0 && profile.UniqueCount == profile.RowCount
	profile.InferredType = p.coercer.InferColumnType(values)

	if profile.RowCount > 0 {
		profile.Sensitivity = p.classifier.ClassifyValues(name, values)
	}
	profile.ContainsPII = profile.Sensitivity.Any()

	stats, err := p.computeStats(profile.InferredType, values)
	if err != nil {
		p.log.Debug().Err(err).Str("column", name).Msg("stat block left empty")
	} else {
		profile.Stats = stats
	}

	return profile
}

// computeStats builds the stat block matching inferredType over the cells of that type
func (p *ProfilerAdapter) computeStats(inferredType profiling.InferredType, values []ingestion.Value) (profiling.TypeSpecificStats, error) {
	switch inferredType {
	case profiling.TypeInteger, profiling.TypeFloat:
		var data []float64
		for _, v := range values {
			if v.IsNumeric() {
				data = append(data, v.AsFloat64())
			}
		}
		s, err := profstats.NumericSummary(data)
		if err != nil {
			return profiling.TypeSpecificStats{}, err
		}
		return profiling.NewNumericBlock(s), nil

	case profiling.TypeText:
		var data []string
		for _, v := range values {
			if !v.IsMissing() {
				data = append(data, v.String())
			}
		}
		s, err := profstats.TextSummary(data, p.config.TopValues)
		if err != nil {
			return profiling.TypeSpecificStats{}, err
		}
		return profiling.NewTextBlock(s), nil

	case profiling.TypeDatetime:
		var data []time.Time
		for _, v := range values {
			if v.Type == ingestion.ValueTypeTimestamp {
				data = append(data, v.Time)
			}
		}
		s, err := profstats.DatetimeSummary(data)
		if err != nil {
			return profiling.TypeSpecificStats{}, err
		}
		return profiling.NewDatetimeBlock(s), nil

	case profiling.TypeBoolean:
		var data []bool
		for _, v := range values {
			if v.Type == ingestion.ValueTypeBoolean {
				data = append(data, v.Bool)
			}
		}
		s, err := profstats.BooleanSummary(data)
		if err != nil {
			return profiling.TypeSpecificStats{}, err
		}
		return profiling.NewBooleanBlock(s), nil
	}

	// unknown: nothing to summarize
	return profiling.TypeSpecificStats{}, nil
}
