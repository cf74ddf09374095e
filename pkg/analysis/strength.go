// Package analysis classifies elemental strength from tallied counts.
package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/translate"
)

// Analyze returns one entry per category in the fixed order wood, fire,
// earth, metal, water. With a zero total every percentage is 0.
func Analyze(counts models.ElementCounts) []models.StrengthEntry {
	total := counts.Total()
	entries := make([]models.StrengthEntry, 0, len(models.Elements))
	for _, e := range models.Elements {
		n := counts[e]
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(n)/float64(total)*1000) / 10
		}
		entries = append(entries, models.StrengthEntry{
			Category:   e,
			Label:      translate.ElementLabel(e),
			Count:      n,
			Percentage: pct,
			Strength:   Classify(n),
		})
	}
	return entries
}

// Classify maps a count to its strength label.
func Classify(count int) models.Strength {
	switch {
	case count <= 0:
		return models.StrengthAbsent
	case count == 1:
		return models.StrengthWeak
	case count == 2:
		return models.StrengthModerate
	default:
		return models.StrengthStrong
	}
}

// Strongest returns the entry with the highest count. Ties go to the
// earlier category. ok is false for an empty slice.
func Strongest(entries []models.StrengthEntry) (models.StrengthEntry, bool) {
	if len(entries) == 0 {
		return models.StrengthEntry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Count > best.Count {
			best = e
		}
	}
	return best, true
}

// StrongFirst returns the strong entries, those listed in precedence
// first and the rest in their original order.
func StrongFirst(entries []models.StrengthEntry, precedence ...models.Element) []models.StrengthEntry {
	var strong []models.StrengthEntry
	for _, e := range precedence {
		for _, entry := range entries {
			if entry.Category == e && entry.Strength == models.StrengthStrong {
				strong = append(strong, entry)
			}
		}
	}
	for _, entry := range entries {
		if entry.Strength == models.StrengthStrong && !slices.Contains(precedence, entry.Category) {
			strong = append(strong, entry)
		}
	}
	return strong
}

var strengthLabels = map[models.Strength]string{
	models.StrengthAbsent:   "부족",
	models.StrengthWeak:     "약함",
	models.StrengthModerate: "보통",
	models.StrengthStrong:   "강함",
}

// Summary renders an entry as a single line, e.g. "화(불): 4개 (50.0%) - 강함".
func Summary(e models.StrengthEntry) string {
	label := e.Label
	if label == "" {
		label = translate.ElementLabel(e.Category)
	}
	return fmt.Sprintf("%s: %d개 (%.1f%%) - %s", label, e.Count, e.Percentage, strengthLabels[e.Strength])
}
