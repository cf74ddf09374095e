package mcp

import (
	"fmt"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/analysis"
	"github.com/yedamo-ai/yedamo/pkg/models"
)

// formatChart formats a computed record as text.
func formatChart(key string, cached, needsRefresh bool, rec models.Record) string {
	var b strings.Builder
	name := rec.Name
	if name == "" {
		name = "anonymous"
	}
	fmt.Fprintf(&b, "Chart for %s (cache key %s", name, key)
	switch {
	case needsRefresh:
		b.WriteString(", refreshed")
	case cached:
		b.WriteString(", cached")
	}
	b.WriteString(")\n")
	fmt.Fprintf(&b, "Born: %04d-%02d-%02d %02d:%02d %s\n",
		rec.Birth.Year, rec.Birth.Month, rec.Birth.Day, rec.Birth.Hour, rec.Birth.Minute, rec.Birth.Timezone)

	fmt.Fprintf(&b, "\n%-6s %-6s %-16s\n", "Pillar", "Raw", "Label")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	p := rec.Result.Pillars
	for _, row := range []struct {
		slot   string
		pillar *models.Pillar
	}{{"year", p.Year}, {"month", p.Month}, {"day", p.Day}, {"hour", p.Hour}} {
		if row.pillar == nil {
			fmt.Fprintf(&b, "%-6s %-6s %-16s\n", row.slot, "-", "-")
			continue
		}
		fmt.Fprintf(&b, "%-6s %-6s %-16s\n", row.slot, row.pillar.Raw, row.pillar.Label)
	}

	if rec.Result.ZodiacAnimal != "" || rec.Result.DayStem != "" {
		fmt.Fprintf(&b, "\nZodiac: %s  Day stem: %s\n", rec.Result.ZodiacAnimal, rec.Result.DayStem)
	}

	b.WriteString("\nElements:\n")
	for _, e := range rec.Strength {
		b.WriteString("  " + analysis.Summary(e) + "\n")
	}
	return b.String()
}

// formatCacheStats formats cache stats as text.
func formatCacheStats(stats models.CacheStats) string {
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("Cache Statistics\n"+
		"  Entries:  %d\n"+
		"  Hits:     %d\n"+
		"  Misses:   %d\n"+
		"  Hit Rate: %.1f%%\n",
		stats.Entries, stats.Hits, stats.Misses, hitRate)
}
