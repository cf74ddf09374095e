// Package saju orchestrates chart computation: cache lookup, the external
// calculator, translation, strength analysis and consultation.
package saju

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yedamo-ai/yedamo/pkg/analysis"
	"github.com/yedamo-ai/yedamo/pkg/cache"
	"github.com/yedamo-ai/yedamo/pkg/consult"
	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/translate"
)

// DefaultTimezone is used when neither the request nor the configuration
// names one.
const DefaultTimezone = "Asia/Seoul"

// Calculator runs the external chart calculation and returns its raw payload.
type Calculator interface {
	Calculate(ctx context.Context, in models.CalculatorInput) ([]byte, error)
}

// Responder answers consultation questions. It never fails.
type Responder interface {
	Respond(ctx context.Context, rec models.Record, question string) consult.Answer
}

// ComputeRequest is a chart request. BirthDate is "YYYY-MM-DD" and
// BirthTime "HH:MM". An empty CacheKey is derived from the clock and name.
type ComputeRequest struct {
	Name      string
	BirthDate string
	BirthTime string
	IsLunar   bool
	Gender    string
	Timezone  string
	CacheKey  string
}

// ComputeResponse carries the record and how it was obtained.
type ComputeResponse struct {
	CacheKey       string
	Cached         bool
	NeedsRefresh   bool
	CacheAvailable bool
	CreatedAt      time.Time
	Record         models.Record
}

// LookupResponse is a record read back by key.
type LookupResponse struct {
	CacheKey     string
	NeedsRefresh bool
	CreatedAt    time.Time
	Record       models.Record
}

// ConsultResponse is the answer to a consultation question.
type ConsultResponse struct {
	CacheKey string
	Question string
	Answer   consult.Answer
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	calc      Calculator
	cache     *cache.Manager
	responder Responder
	timezone  string
	logger    *zap.Logger
}

// NewService wires the orchestrator. cm may wrap a nil store to run without a cache.
func NewService(calc Calculator, cm *cache.Manager, responder Responder, timezone string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cm == nil {
		cm = cache.NewManager(nil, logger)
	}
	if timezone == "" {
		timezone = DefaultTimezone
	}
	return &Service{
		calc:      calc,
		cache:     cm,
		responder: responder,
		timezone:  timezone,
		logger:    logger,
	}
}

// Compute returns the chart for req, from cache when fresh.
func (s *Service) Compute(ctx context.Context, req ComputeRequest) (ComputeResponse, error) {
	birth, err := ParseBirth(req)
	if err != nil {
		return ComputeResponse{}, err
	}
	if birth.Gender == "" {
		birth.Gender = defaultGender
	}
	if birth.Timezone == "" {
		birth.Timezone = s.timezone
	}

	key := req.CacheKey
	if key == "" {
		key = cache.DeriveKey(s.cache.Now(), req.Name)
	}
	log := s.logger.With(zap.String("cache_key", key))

	lk := s.cache.Lookup(ctx, key)
	if lk.Freshness == cache.Fresh {
		log.Debug("cache hit")
		return ComputeResponse{
			CacheKey:       key,
			Cached:         true,
			CacheAvailable: true,
			CreatedAt:      time.Unix(lk.Entry.CreatedAt, 0),
			Record:         lk.Entry.Payload,
		}, nil
	}

	raw, err := s.calc.Calculate(ctx, models.CalculatorInput{
		Year:     birth.Year,
		Month:    birth.Month,
		Day:      birth.Day,
		Hour:     birth.Hour,
		Gender:   birth.Gender,
		Timezone: birth.Timezone,
	})
	if err != nil {
		log.Warn("calculator failed", zap.Error(err))
		if errors.Is(err, models.ErrComputation) {
			return ComputeResponse{}, err
		}
		return ComputeResponse{}, fmt.Errorf("%w: %w", models.ErrComputation, err)
	}

	result, err := translate.Translate(raw)
	if err != nil {
		log.Warn("calculator payload rejected", zap.Error(err))
		return ComputeResponse{}, err
	}

	rec := models.Record{
		Name:     req.Name,
		Birth:    birth,
		Result:   result,
		Strength: analysis.Analyze(result.ElementalCounts),
	}
	entry := s.cache.Store(ctx, key, rec)

	stale := lk.Freshness == cache.Stale
	log.Info("chart computed", zap.Bool("refreshed", stale))
	return ComputeResponse{
		CacheKey:       key,
		Cached:         stale,
		NeedsRefresh:   stale,
		CacheAvailable: s.cache.Available(ctx),
		CreatedAt:      time.Unix(entry.CreatedAt, 0),
		Record:         rec,
	}, nil
}

// Lookup returns the cached record under key.
func (s *Service) Lookup(ctx context.Context, key string) (LookupResponse, error) {
	if strings.TrimSpace(key) == "" {
		return LookupResponse{}, fmt.Errorf("%w: cache key is required", models.ErrValidation)
	}
	lk := s.cache.Lookup(ctx, key)
	if lk.Freshness == cache.Absent {
		return LookupResponse{}, fmt.Errorf("%w: %s", models.ErrNotFound, key)
	}
	return LookupResponse{
		CacheKey:     key,
		NeedsRefresh: lk.Freshness == cache.Stale,
		CreatedAt:    time.Unix(lk.Entry.CreatedAt, 0),
		Record:       lk.Entry.Payload,
	}, nil
}

// Consult answers question about the record cached under key.
func (s *Service) Consult(ctx context.Context, key, question string) (ConsultResponse, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(question) == "" {
		return ConsultResponse{}, fmt.Errorf("%w: cache_key and question are required", models.ErrValidation)
	}
	lk := s.cache.Lookup(ctx, key)
	if lk.Freshness == cache.Absent {
		return ConsultResponse{}, fmt.Errorf("%w: %s", models.ErrNotFound, key)
	}
	ans := s.responder.Respond(ctx, lk.Entry.Payload, question)
	s.logger.Info("consultation answered",
		zap.String("cache_key", key),
		zap.String("source", string(ans.Source)),
		zap.String("category", string(ans.Analysis.Category)))
	return ConsultResponse{CacheKey: key, Question: question, Answer: ans}, nil
}

// CacheAvailable reports whether the cache backend is reachable.
func (s *Service) CacheAvailable(ctx context.Context) bool {
	return s.cache.Available(ctx)
}
