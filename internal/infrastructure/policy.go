package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
)

const (
	RuleDiscountDay     = "discount_day"
	RuleReceiptEligible = "receipt_eligible"
)

// JsonLogicPolicy evaluates the engine's predicates from a rule pack. Rules
// missing from the pack, and rules that fail at evaluation time, fall back to
// the built-in policy.
type JsonLogicPolicy struct {
	pack     domain.RulePackDefinition
	executor *JsonLogicExecutor
	fallback engine.DefaultPolicy
	logger   zerolog.Logger
}

// NewJsonLogicPolicy checks every known rule against sample input before
// returning the policy.
func NewJsonLogicPolicy(pack domain.RulePackDefinition, executor *JsonLogicExecutor, logger zerolog.Logger) (*JsonLogicPolicy, error) {
	p := &JsonLogicPolicy{pack: pack, executor: executor, logger: logger}
	ctx := context.Background()
	if rule, ok := pack.Rule(RuleDiscountDay); ok {
		if _, err := executor.ExecuteBool(ctx, rule.Logic, dayVars(time.Now())); err != nil {
			return nil, fmt.Errorf("rule pack %s: %s: %w", pack.Version, RuleDiscountDay, err)
		}
	}
	if rule, ok := pack.Rule(RuleReceiptEligible); ok {
		if _, err := executor.ExecuteBool(ctx, rule.Logic, receiptVars(0)); err != nil {
			return nil, fmt.Errorf("rule pack %s: %s: %w", pack.Version, RuleReceiptEligible, err)
		}
	}
	return p, nil
}

func (p *JsonLogicPolicy) Version() string { return p.pack.Version }

func (p *JsonLogicPolicy) IsDiscountDay(ctx context.Context, day time.Time) bool {
	rule, ok := p.pack.Rule(RuleDiscountDay)
	if !ok {
		return p.fallback.IsDiscountDay(ctx, day)
	}
	v, err := p.executor.ExecuteBool(ctx, rule.Logic, dayVars(day))
	if err != nil {
		p.logger.Warn().Err(err).Str("rule", rule.ID).Str("version", p.pack.Version).Msg("rule_fallback")
		return p.fallback.IsDiscountDay(ctx, day)
	}
	return v
}

func (p *JsonLogicPolicy) ReceiptQualifies(ctx context.Context, totalPayment domain.Price) bool {
	rule, ok := p.pack.Rule(RuleReceiptEligible)
	if !ok {
		return p.fallback.ReceiptQualifies(ctx, totalPayment)
	}
	v, err := p.executor.ExecuteBool(ctx, rule.Logic, receiptVars(totalPayment))
	if err != nil {
		p.logger.Warn().Err(err).Str("rule", rule.ID).Str("version", p.pack.Version).Msg("rule_fallback")
		return p.fallback.ReceiptQualifies(ctx, totalPayment)
	}
	return v
}

func dayVars(day time.Time) map[string]any {
	return map[string]any{
		"weekday": int(day.Weekday()),
		"month":   int(day.Month()),
		"day":     day.Day(),
		"date":    day.Format(time.DateOnly),
	}
}

func receiptVars(totalPayment domain.Price) map[string]any {
	return map[string]any{"totalPayment": int64(totalPayment)}
}
