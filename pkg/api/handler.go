// Package api serves the chart service over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/saju"
)

const agentType = "yedamo_consultation"

// Service is the chart service the handlers drive.
type Service interface {
	Compute(ctx context.Context, req saju.ComputeRequest) (saju.ComputeResponse, error)
	Lookup(ctx context.Context, key string) (saju.LookupResponse, error)
	Consult(ctx context.Context, key, question string) (saju.ConsultResponse, error)
	CacheAvailable(ctx context.Context) bool
}

type Handler struct {
	svc    Service
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/saju/basic", h.Basic)
	e.GET("/api/saju/:cacheKey", h.Cached)
	e.POST("/saju/consultation", h.Consultation)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:         "OK",
		Timestamp:      h.now().UTC().Format(time.RFC3339),
		CacheConnected: h.svc.CacheAvailable(c.Request().Context()),
	})
}

func (h *Handler) Basic(c echo.Context) error {
	var body BasicRequest
	if err := c.Bind(&body); err != nil {
		return h.mapError(c, fmt.Errorf("%w: malformed body", models.ErrValidation))
	}

	res, err := h.svc.Compute(c.Request().Context(), toComputeRequest(body))
	if err != nil {
		return h.mapError(c, err)
	}

	available := res.CacheAvailable
	return c.JSON(http.StatusOK, SajuResponse{
		CacheKey:       res.CacheKey,
		Cached:         res.Cached,
		NeedsRefresh:   res.NeedsRefresh,
		CacheAvailable: &available,
		Success:        true,
		Data:           toData(res.Record),
		Timestamp:      res.CreatedAt.Unix(),
	})
}

func (h *Handler) Cached(c echo.Context) error {
	ctx := c.Request().Context()
	res, err := h.svc.Lookup(ctx, c.Param("cacheKey"))
	if errors.Is(err, models.ErrNotFound) && !h.svc.CacheAvailable(ctx) {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "cache unavailable", Details: err.Error()})
	}
	if err != nil {
		return h.mapError(c, err)
	}
	available := true
	return c.JSON(http.StatusOK, SajuResponse{
		CacheKey:       res.CacheKey,
		Cached:         true,
		NeedsRefresh:   res.NeedsRefresh,
		CacheAvailable: &available,
		Success:        true,
		Data:           toData(res.Record),
		Timestamp:      res.CreatedAt.Unix(),
	})
}

func (h *Handler) Consultation(c echo.Context) error {
	var body ConsultationRequest
	if err := c.Bind(&body); err != nil {
		return h.mapError(c, fmt.Errorf("%w: malformed body", models.ErrValidation))
	}

	res, err := h.svc.Consult(c.Request().Context(), body.CacheKey, body.Question)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, ConsultationResponse{
		AgentType:    agentType,
		Consultation: res.Answer.Text,
		Source:       string(res.Answer.Source),
		Category:     string(res.Answer.Analysis.Category),
		CacheKey:     res.CacheKey,
		Question:     res.Question,
		Timestamp:    h.now().UTC().Format(time.RFC3339),
	})
}

// toComputeRequest flattens either body form into a ComputeRequest.
func toComputeRequest(b BasicRequest) saju.ComputeRequest {
	if b.BirthInfo == nil {
		return saju.ComputeRequest{
			Name:      b.Name,
			BirthDate: b.BirthDate,
			BirthTime: b.BirthTime,
			IsLunar:   b.IsLunar,
			Gender:    b.Gender,
			Timezone:  b.Timezone,
			CacheKey:  b.CacheKey,
		}
	}
	bi := b.BirthInfo
	tz := bi.Timezone
	if tz == "" {
		tz, _ = saju.RegionTimezone(bi.Region)
	}
	return saju.ComputeRequest{
		Name:      b.Name,
		BirthDate: fmt.Sprintf("%04d-%02d-%02d", bi.Year, bi.Month, bi.Day),
		BirthTime: fmt.Sprintf("%02d:00", bi.Hour),
		IsLunar:   bi.IsLunar,
		Gender:    bi.Gender,
		Timezone:  tz,
		CacheKey:  b.CacheKey,
	}
}

func toData(rec models.Record) SajuData {
	name := rec.Name
	if name == "" {
		name = "익명"
	}
	return SajuData{
		Name:           name,
		BirthInfo:      rec.Birth,
		TranslatedData: rec.Result,
		WuxingAnalysis: rec.Strength,
	}
}

func (h *Handler) mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, models.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "cached chart not found", Details: err.Error()})
	case errors.Is(err, models.ErrComputation), errors.Is(err, models.ErrTranslation):
		h.logger.Error("calculator failure", zap.String("request_id", requestID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "chart calculation failed", Details: err.Error()})
	default:
		h.logger.Error("internal error", zap.String("request_id", requestID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Details: err.Error()})
	}
}
