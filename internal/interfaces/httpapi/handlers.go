package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
	"service-admission/internal/infrastructure"
	"service-admission/internal/infrastructure/codec"
	"service-admission/internal/infrastructure/diff"
	"service-admission/internal/interfaces"
	"service-admission/internal/obs"
	"service-admission/internal/usecase/runengine"
)

type PatchRequest struct {
	Group codec.GroupDocument `json:"group"`
	Patch json.RawMessage     `json:"patch"`
}

type AdmissionResponse struct {
	Records   []domain.AudienceRecord `json:"records"`
	Steps     []domain.ExecutionStep  `json:"steps"`
	Total     domain.Price            `json:"total"`
	BasePrice domain.Price            `json:"basePrice"`
	Today     string                  `json:"today"`
}

type RepriceResponse struct {
	Group    codec.GroupDocument     `json:"group"`
	Records  []domain.AudienceRecord `json:"records"`
	Total    domain.Price            `json:"total"`
	Previous domain.Price            `json:"previousTotal"`
	Delta    []diff.PriceChange      `json:"delta"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Pinger reports backend health for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Admission interfaces.AdmissionFacade
	Reprice   *runengine.UseCase
	Logger    zerolog.Logger
	Metrics   *obs.Metrics
	Gatherer  prometheus.Gatherer
	Health    Pinger
}

// New builds the echo router for the admission API.
func New(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(obs.RequestLogger(s.Logger))
	if s.Metrics != nil {
		e.Use(s.Metrics.Middleware())
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodPatch, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.POST("/admissions", s.handleCompute)
	e.PATCH("/admissions", s.handleReprice)
	e.GET("/health", s.handleHealth)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return e
}

func (s *Server) handleCompute(c echo.Context) error {
	var doc codec.GroupDocument
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload", Details: err.Error()})
	}
	group, err := doc.ToModel()
	if err != nil {
		return s.fail(c, err)
	}

	res, err := s.Admission.ComputeAdmission(c.Request().Context(), group)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, AdmissionResponse{
		Records:   res.Records,
		Steps:     res.Steps,
		Total:     res.Total(),
		BasePrice: res.BasePrice,
		Today:     res.Today.Format(time.DateOnly),
	})
}

func (s *Server) handleReprice(c echo.Context) error {
	var req PatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid patch request", Details: err.Error()})
	}
	if len(req.Patch) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid patch request", Details: "patch is required"})
	}

	out, err := s.Reprice.Run(c.Request().Context(), req.Group, req.Patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, RepriceResponse{
		Group:    out.Group,
		Records:  out.After.Records,
		Total:    out.After.Total(),
		Previous: out.Before.Total(),
		Delta:    out.Delta,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	if s.Health != nil {
		if err := s.Health.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, infrastructure.ErrInvalidPatch):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "patch rejected", Details: err.Error()})
	case errors.Is(err, codec.ErrInvalidDocument),
		errors.Is(err, model.ErrDuplicateVisitor),
		errors.Is(err, model.ErrStampOutOfRange),
		errors.Is(err, model.ErrNegativeAmount):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group", Details: err.Error()})
	case errors.Is(err, domain.ErrInconsistentState):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "admission state inconsistent"})
	default:
		s.Logger.Error().Err(err).Msg("admission_unexpected_error")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
