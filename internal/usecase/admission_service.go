package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
	"service-admission/internal/domain/model"
	"service-admission/internal/interfaces"
	"service-admission/internal/obs"
)

type AdmissionService struct {
	engine  interfaces.FeeEngine
	logger  zerolog.Logger
	metrics *obs.Metrics
}

// NewAdmissionService wraps a fee engine with logging and metrics. metrics may be nil.
func NewAdmissionService(e interfaces.FeeEngine, logger zerolog.Logger, metrics *obs.Metrics) interfaces.AdmissionFacade {
	return &AdmissionService{engine: e, logger: logger, metrics: metrics}
}

func (s *AdmissionService) ComputeAdmission(ctx context.Context, group model.VisitorGroup) (*engine.Result, error) {
	start := time.Now()
	res, err := s.engine.Run(ctx, group)
	s.metrics.ObserveComputation(group.Len(), res.Records, err)

	if err != nil {
		evt := s.logger.Warn()
		if errors.Is(err, domain.ErrInconsistentState) {
			evt = s.logger.Error()
		}
		evt.Err(err).Int("group_size", group.Len()).Msg("admission_failed")
		return nil, err
	}

	s.logger.Info().
		Int("group_size", group.Len()).
		Int64("base_price", int64(res.BasePrice)).
		Int64("total", int64(res.Total())).
		Int("steps", len(res.Steps)).
		Str("business_date", res.Today.Format(time.DateOnly)).
		Dur("duration", time.Since(start)).
		Msg("admission_computed")
	return &res, nil
}
