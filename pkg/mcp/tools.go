package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/saju"
)

// Tool argument structs.

type computeArgs struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time"`
	IsLunar   bool   `json:"is_lunar"`
	Gender    string `json:"gender"`
	Timezone  string `json:"timezone"`
	Region    string `json:"region"`
	CacheKey  string `json:"cache_key"`
}

type lookupArgs struct {
	CacheKey string `json:"cache_key"`
}

type consultArgs struct {
	CacheKey string `json:"cache_key"`
	Question string `json:"question"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"saju_compute":     handleCompute,
	"saju_lookup":      handleLookup,
	"saju_consult":     handleConsult,
	"saju_cache_stats": handleCacheStats,
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "saju_compute",
		Description: "Compute the four pillars and elemental strength for a birth moment. Results are cached for 30 minutes.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"birth_date", "birth_time"},
			"properties": map[string]any{
				"name":       stringProp("Name of the person (optional)"),
				"birth_date": stringProp("Birth date in YYYY-MM-DD format"),
				"birth_time": stringProp("Birth time in HH:MM format"),
				"is_lunar":   map[string]any{"type": "boolean", "description": "Whether the date is a lunar calendar date"},
				"gender":     stringProp("male or female (optional, defaults to male)"),
				"timezone":   stringProp("IANA timezone (optional)"),
				"region":     stringProp("Birth region: korea, usa_east, usa_west, china, japan (optional)"),
				"cache_key":  stringProp("Cache key to reuse (optional)"),
			},
		},
	},
	{
		Name:        "saju_lookup",
		Description: "Read a previously computed chart by cache key.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"cache_key"},
			"properties": map[string]any{
				"cache_key": stringProp("The cache key returned by saju_compute"),
			},
		},
	},
	{
		Name:        "saju_consult",
		Description: "Ask a question about a computed chart.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"cache_key", "question"},
			"properties": map[string]any{
				"cache_key": stringProp("The cache key returned by saju_compute"),
				"question":  stringProp("The question to answer"),
			},
		},
	},
	{
		Name:        "saju_cache_stats",
		Description: "Show chart cache statistics (entries, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleCompute(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args computeArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Timezone == "" && args.Region != "" {
		args.Timezone, _ = saju.RegionTimezone(args.Region)
	}
	res, err := s.svc.Compute(ctx, saju.ComputeRequest{
		Name:      args.Name,
		BirthDate: args.BirthDate,
		BirthTime: args.BirthTime,
		IsLunar:   args.IsLunar,
		Gender:    args.Gender,
		Timezone:  args.Timezone,
		CacheKey:  args.CacheKey,
	})
	if err != nil {
		return errorResult("Error computing chart: " + err.Error())
	}
	return textResult(formatChart(res.CacheKey, res.Cached, res.NeedsRefresh, res.Record))
}

func handleLookup(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args lookupArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.CacheKey == "" {
		return errorResult("cache_key is required")
	}
	res, err := s.svc.Lookup(ctx, args.CacheKey)
	if errors.Is(err, models.ErrNotFound) {
		return errorResult("No cached chart for " + args.CacheKey + ". Run saju_compute first.")
	}
	if err != nil {
		return errorResult("Error reading chart: " + err.Error())
	}
	return textResult(formatChart(res.CacheKey, true, res.NeedsRefresh, res.Record))
}

func handleConsult(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args consultArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	res, err := s.svc.Consult(ctx, args.CacheKey, args.Question)
	if err != nil {
		return errorResult("Error answering question: " + err.Error())
	}
	return textResult(res.Answer.Text)
}

func handleCacheStats(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.cache == nil {
		return textResult("Cache statistics are not available for this backend.")
	}
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return errorResult("Error fetching cache stats: " + err.Error())
	}
	return textResult(formatCacheStats(stats))
}
