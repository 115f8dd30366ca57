package insights

import (
	"testing"
	"time"

	"careerly/internal/core"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	populated := []core.SalaryRange{{Role: "Engineer", Min: 1, Max: 2, Median: 1.5}}

	cases := []struct {
		name    string
		insight core.IndustryInsight
		want    bool
	}{
		{
			name:    "fresh record",
			insight: core.IndustryInsight{SalaryRanges: populated, NextUpdate: now.Add(24 * time.Hour)},
			want:    false,
		},
		{
			name:    "next update in the past",
			insight: core.IndustryInsight{SalaryRanges: populated, NextUpdate: now.Add(-time.Minute)},
			want:    true,
		},
		{
			name:    "next update exactly now",
			insight: core.IndustryInsight{SalaryRanges: populated, NextUpdate: now},
			want:    true,
		},
		{
			name:    "placeholder with empty salary data is always stale",
			insight: core.IndustryInsight{SalaryRanges: nil, NextUpdate: now.Add(24 * time.Hour)},
			want:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsStale(&tc.insight, now); got != tc.want {
				t.Errorf("IsStale = %v, want %v", got, tc.want)
			}
		})
	}
}
