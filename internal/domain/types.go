package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Price is an admission amount in minor currency units.
type Price int64

// Sub returns p-q, floored at zero.
func (p Price) Sub(q Price) Price {
	if q >= p {
		return 0
	}
	return p - q
}

// Min returns the smaller of p and q.
func (p Price) Min(q Price) Price {
	if q < p {
		return q
	}
	return p
}

// DiscountKind identifies the rule or proof that produced a discount line.
type DiscountKind string

const (
	KindShareholder DiscountKind = "shareholder"
	KindChild       DiscountKind = "child"
	KindDisability  DiscountKind = "disability"
	KindSenior      DiscountKind = "senior"
	KindFemale      DiscountKind = "female"
	KindStamp       DiscountKind = "stamp"
	KindReceipt     DiscountKind = "receipt"
	KindMembership  DiscountKind = "membership"
	KindVoucher     DiscountKind = "voucher"
)

// DiscountLine is one itemized deduction on a visitor's fee.
type DiscountLine struct {
	Amount Price        `json:"amount" yaml:"amount"`
	Label  string       `json:"label" yaml:"label"`
	Kind   DiscountKind `json:"kind" yaml:"kind"`
}

// AudienceRecord is the computed outcome for one visitor.
type AudienceRecord struct {
	VisitorID uuid.UUID      `json:"visitorId" yaml:"visitor_id"`
	Stamp     int            `json:"stamp" yaml:"stamp"`
	Price     Price          `json:"price" yaml:"price"`
	Discounts []DiscountLine `json:"discounts" yaml:"discounts"`
}

// HasKind reports whether a line of the given kind is present.
func (a AudienceRecord) HasKind(kind DiscountKind) bool {
	for _, d := range a.Discounts {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// ExecutionStep records one rule application for the audit trail.
type ExecutionStep struct {
	Phase     string       `json:"phase"`
	VisitorID uuid.UUID    `json:"visitorId"`
	Kind      DiscountKind `json:"kind,omitempty"`
	Amount    Price        `json:"amount"`
	Message   string       `json:"message"`
}

// ErrInconsistentState means a visitor has no working-state entry after pricing.
// It indicates a defect in the resolver and is never recovered from.
var ErrInconsistentState = errors.New("admission working state inconsistent")

// RulePackDefinition is a versioned set of predicate rules loaded from disk.
type RulePackDefinition struct {
	Version     string       `json:"version" yaml:"version"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []RuleConfig `json:"rules" yaml:"rules"`
}

type RuleConfig struct {
	ID          string         `json:"id" yaml:"id"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Logic       map[string]any `json:"logic" yaml:"logic"`
}

// Rule returns the rule with the given id.
func (p RulePackDefinition) Rule(id string) (RuleConfig, bool) {
	for _, r := range p.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return RuleConfig{}, false
}

// ErrRuleExecutionFailed wraps evaluation errors from the rule executor.
var ErrRuleExecutionFailed = errors.New("rule execution failed")
