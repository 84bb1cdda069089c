package engine

import (
	"context"

	"github.com/google/uuid"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

// Engine computes admission fees for visitor groups. It holds no per-call
// state and is safe for concurrent use when its collaborators are.
type Engine struct {
	config       PriceConfiguration
	shareholders ShareholderRegistry
	members      MembershipRegistry
	events       EventRegistry
	policy       Policy
}

type Option func(*Engine)

// WithPolicy replaces the built-in discount-day and receipt predicates.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// New builds an Engine. Nil registries reject every lookup.
func New(cfg PriceConfiguration, shareholders ShareholderRegistry, members MembershipRegistry, events EventRegistry, opts ...Option) *Engine {
	e := &Engine{
		config:       cfg,
		shareholders: shareholders,
		members:      members,
		events:       events,
		policy:       DefaultPolicy{},
	}
	if e.shareholders == nil {
		e.shareholders = ShareholderRegistryFunc(func(context.Context, uuid.UUID) bool { return false })
	}
	if e.members == nil {
		e.members = MembershipRegistryFunc(func(context.Context, uuid.UUID) bool { return false })
	}
	if e.events == nil {
		e.events = EventRegistryFunc(func(context.Context, model.DiscountVoucher) bool { return false })
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run prices the group and returns the records together with the audit steps.
func (e *Engine) Run(ctx context.Context, group model.VisitorGroup) (Result, error) {
	fc := NewFeeContext(e.config.BasePrice(), e.config.Today())

	e.resolveBase(ctx, fc, group)
	e.applyOptional(ctx, fc, group)

	records, err := compileAudience(fc, group)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Records:   records,
		Steps:     fc.Steps(),
		BasePrice: fc.Base,
		Today:     fc.Today,
	}, nil
}

// Compute returns one record per visitor in input order.
func (e *Engine) Compute(ctx context.Context, group model.VisitorGroup) ([]domain.AudienceRecord, error) {
	res, err := e.Run(ctx, group)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}
