package insights

import (
	"encoding/json"
	"reflect"
	"testing"

	"careerly/internal/core"
)

func TestNormalize_Defaults(t *testing.T) {
	insight := Normalize(map[string]any{})

	if insight.GrowthRate != 0 {
		t.Errorf("Expected growthRate 0, got %v", insight.GrowthRate)
	}
	if insight.DemandLevel != core.DemandMedium {
		t.Errorf("Expected demandLevel Medium, got %q", insight.DemandLevel)
	}
	if insight.MarketOutlook != core.OutlookNeutral {
		t.Errorf("Expected marketOutlook Neutral, got %q", insight.MarketOutlook)
	}
	if insight.SalaryRanges == nil || len(insight.SalaryRanges) != 0 {
		t.Errorf("Expected empty salaryRanges, got %v", insight.SalaryRanges)
	}
	for name, list := range map[string][]string{
		"topSkills":         insight.TopSkills,
		"keyTrends":         insight.KeyTrends,
		"recommendedSkills": insight.RecommendedSkills,
	} {
		if list == nil || len(list) != 0 {
			t.Errorf("Expected empty %s, got %v", name, list)
		}
	}
}

func TestNormalize_CommaSeparatedSkills(t *testing.T) {
	insight := Normalize(map[string]any{"topSkills": "a, b, c"})
	if !reflect.DeepEqual(insight.TopSkills, []string{"a", "b", "c"}) {
		t.Errorf("Expected [a b c], got %v", insight.TopSkills)
	}
}

func TestNormalize_SkillArrayWithMixedTypes(t *testing.T) {
	insight := Normalize(map[string]any{"topSkills": []any{"Go", 42.0}})
	if !reflect.DeepEqual(insight.TopSkills, []string{"Go", "42"}) {
		t.Errorf("Expected [Go 42], got %v", insight.TopSkills)
	}
}

func TestNormalize_SalaryStringNumbers(t *testing.T) {
	insight := Normalize(map[string]any{
		"salaryRanges": []any{
			map[string]any{"role": "Engineer", "min": "50000", "max": 90000.0, "median": "70000.5"},
		},
	})

	if len(insight.SalaryRanges) != 1 {
		t.Fatalf("Expected 1 salary range, got %d", len(insight.SalaryRanges))
	}
	sr := insight.SalaryRanges[0]
	if sr.Min != 50000 {
		t.Errorf("Expected min 50000, got %v", sr.Min)
	}
	if sr.Max != 90000 {
		t.Errorf("Expected max 90000, got %v", sr.Max)
	}
	if sr.Median != 70000.5 {
		t.Errorf("Expected median 70000.5, got %v", sr.Median)
	}
	if sr.Location != "" {
		t.Errorf("Expected empty location, got %q", sr.Location)
	}
}

func TestNormalize_SalaryTitleAlias(t *testing.T) {
	insight := Normalize(map[string]any{
		"salaryRanges": []any{
			map[string]any{"title": "Data Scientist", "min": 1.0, "max": 2.0, "median": 1.5},
			map[string]any{"min": "not a number"},
		},
	})

	if insight.SalaryRanges[0].Role != "Data Scientist" {
		t.Errorf("Expected title alias to fill role, got %q", insight.SalaryRanges[0].Role)
	}
	if insight.SalaryRanges[1].Role != "Unknown" {
		t.Errorf("Expected missing role to default to Unknown, got %q", insight.SalaryRanges[1].Role)
	}
	if insight.SalaryRanges[1].Min != 0 {
		t.Errorf("Expected unparsable min to be 0, got %v", insight.SalaryRanges[1].Min)
	}
}

func TestNormalize_GrowthRate(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  float64
	}{
		{"percentage string", "5.2%", 5.2},
		{"plain string", "12", 12},
		{"number", 7.5, 7.5},
		{"absent", nil, 0},
		{"garbage", "soon", 0},
		{"wrong type", []any{"8"}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj := map[string]any{}
			if tc.value != nil {
				obj["growthRate"] = tc.value
			}
			insight := Normalize(obj)
			if insight.GrowthRate != tc.want {
				t.Errorf("growthRate %v normalized to %v, want %v", tc.value, insight.GrowthRate, tc.want)
			}
		})
	}
}

func TestNormalize_PassThroughEnums(t *testing.T) {
	insight := Normalize(map[string]any{
		"demandLevel":   "High",
		"marketOutlook": "Negative",
	})
	if insight.DemandLevel != core.DemandHigh {
		t.Errorf("Expected High, got %q", insight.DemandLevel)
	}
	if insight.MarketOutlook != core.OutlookNegative {
		t.Errorf("Expected Negative, got %q", insight.MarketOutlook)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(map[string]any{
		"salaryRanges": []any{
			map[string]any{"role": "Engineer", "min": "50000", "max": "90000", "median": "70000", "location": "Remote"},
		},
		"growthRate":        "8%",
		"demandLevel":       "High",
		"topSkills":         "Go, SQL, Kubernetes",
		"marketOutlook":     "Positive",
		"keyTrends":         []any{"AI", "Cloud"},
		"recommendedSkills": []any{"Terraform"},
	})

	// Round-trip the normalized record back through JSON and normalize again.
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(encoded, &obj); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	second := Normalize(obj)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize is not a fixed point:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
