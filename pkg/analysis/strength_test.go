package analysis

import (
	"math"
	"slices"
	"testing"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

func counts(wood, fire, earth, metal, water int) models.ElementCounts {
	return models.ElementCounts{
		models.Wood: wood, models.Fire: fire, models.Earth: earth,
		models.Metal: metal, models.Water: water,
	}
}

func TestAnalyzeOrderAndPercentages(t *testing.T) {
	entries := Analyze(counts(2, 4, 1, 0, 1))
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Category != models.Elements[i] {
			t.Errorf("entry %d: expected %s, got %s", i, models.Elements[i], e.Category)
		}
	}
	if entries[1].Percentage != 50.0 || entries[1].Strength != models.StrengthStrong {
		t.Errorf("fire: %+v", entries[1])
	}
	if entries[0].Percentage != 25.0 || entries[0].Strength != models.StrengthModerate {
		t.Errorf("wood: %+v", entries[0])
	}
	if entries[2].Percentage != 12.5 || entries[2].Strength != models.StrengthWeak {
		t.Errorf("earth: %+v", entries[2])
	}
	if entries[3].Strength != models.StrengthAbsent {
		t.Errorf("metal: %+v", entries[3])
	}
}

func TestAnalyzePercentageSum(t *testing.T) {
	cases := []models.ElementCounts{
		counts(1, 1, 1, 0, 0),
		counts(1, 1, 1, 1, 1),
		counts(3, 2, 1, 1, 1),
		counts(0, 0, 0, 0, 8),
		counts(7, 1, 3, 2, 9),
		counts(1, 2, 3, 4, 5),
	}
	for _, c := range cases {
		sum := 0.0
		for _, e := range Analyze(c) {
			sum += e.Percentage
		}
		if math.Abs(sum-100) > 0.5 {
			t.Errorf("counts %v: percentages sum to %.2f", c, sum)
		}
	}
}

func TestAnalyzeAllZero(t *testing.T) {
	entries := Analyze(models.NewElementCounts())
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Percentage != 0 || e.Strength != models.StrengthAbsent {
			t.Errorf("expected 0%% absent, got %+v", e)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	want := map[int]models.Strength{
		0:  models.StrengthAbsent,
		1:  models.StrengthWeak,
		2:  models.StrengthModerate,
		3:  models.StrengthStrong,
		10: models.StrengthStrong,
	}
	for n, s := range want {
		if got := Classify(n); got != s {
			t.Errorf("count %d: expected %s, got %s", n, s, got)
		}
	}
}

func TestStrongest(t *testing.T) {
	best, ok := Strongest(Analyze(counts(2, 2, 1, 3, 0)))
	if !ok || best.Category != models.Metal {
		t.Errorf("expected metal, got %+v", best)
	}

	tie, _ := Strongest(Analyze(counts(2, 2, 2, 1, 1)))
	if tie.Category != models.Wood {
		t.Errorf("expected tie to resolve to wood, got %s", tie.Category)
	}

	if _, ok := Strongest(nil); ok {
		t.Error("expected no strongest entry for empty slice")
	}
}

func TestStrongFirst(t *testing.T) {
	tests := []struct {
		name   string
		counts models.ElementCounts
		want   []models.Element
	}{
		{"tie keeps fire ahead", counts(3, 3, 1, 1, 0), []models.Element{models.Fire, models.Wood}},
		{"fire outranked", counts(4, 3, 1, 0, 0), []models.Element{models.Fire, models.Wood}},
		{"metal before others", counts(0, 0, 3, 3, 0), []models.Element{models.Metal, models.Earth}},
		{"none strong", counts(2, 2, 2, 1, 1), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []models.Element
			for _, e := range StrongFirst(Analyze(tt.counts), models.Fire, models.Metal) {
				got = append(got, e.Category)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	entries := Analyze(counts(2, 4, 1, 0, 1))
	if got := Summary(entries[1]); got != "화(불): 4개 (50.0%) - 강함" {
		t.Errorf("unexpected summary: %s", got)
	}
}
