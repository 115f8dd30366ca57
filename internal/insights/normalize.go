package insights

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"careerly/internal/core"
)

var firstNumber = regexp.MustCompile(`[\d]+(?:\.[\d]+)?`)

var listSeparator = regexp.MustCompile(`,\s*`)

// Normalize coerces a loosely-typed parsed object into the canonical
// IndustryInsight shape. The model may omit fields, send numbers as strings,
// or use alternate field names; every required field comes out populated
// with its documented default when unrecoverable. Normalizing an already
// normalized record is a no-op, and no object shape makes this fail.
//
// Industry and the update timestamps are the caller's responsibility.
func Normalize(obj map[string]any) *core.IndustryInsight {
	return &core.IndustryInsight{
		SalaryRanges:      normalizeSalaryRanges(obj["salaryRanges"]),
		GrowthRate:        normalizeGrowthRate(obj["growthRate"]),
		DemandLevel:       stringOr(obj["demandLevel"], core.DemandMedium),
		TopSkills:         normalizeStringList(obj["topSkills"]),
		MarketOutlook:     stringOr(obj["marketOutlook"], core.OutlookNeutral),
		KeyTrends:         normalizeStringList(obj["keyTrends"]),
		RecommendedSkills: normalizeStringList(obj["recommendedSkills"]),
	}
}

func normalizeSalaryRanges(value any) []core.SalaryRange {
	items, ok := value.([]any)
	if !ok {
		return []core.SalaryRange{}
	}

	ranges := make([]core.SalaryRange, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sr := core.SalaryRange{
			Role:     stringOr(entry["role"], stringOr(entry["title"], "Unknown")),
			Min:      toFloat(entry["min"]),
			Max:      toFloat(entry["max"]),
			Median:   toFloat(entry["median"]),
			Location: stringOr(entry["location"], stringOr(entry["locationName"], "")),
		}
		ranges = append(ranges, sr)
	}
	return ranges
}

// normalizeGrowthRate accepts a number, or a string like "5.2%" whose first
// numeric substring is taken. Anything else becomes 0 so the stored value
// is never null.
func normalizeGrowthRate(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		if m := firstNumber.FindString(v); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				return f
			}
		}
		return 0
	default:
		return 0
	}
}

// normalizeStringList accepts an array of values (each stringified), a
// comma-separated string, or anything else as an empty list.
func normalizeStringList(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return listSeparator.Split(v, -1)
	default:
		return []string{}
	}
}

// toFloat passes numbers through and parses numeric strings, treating
// unparsable input as 0.
func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		if m := firstNumber.FindString(v); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				return f
			}
		}
		return 0
	default:
		return 0
	}
}

func stringOr(value any, fallback string) string {
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
