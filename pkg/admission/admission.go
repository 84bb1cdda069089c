// Package admission computes admission fees for visitor groups. It is the
// embedding entry point for callers outside this module.
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
	"service-admission/internal/domain/model"
	"service-admission/internal/infrastructure"
	"service-admission/internal/infrastructure/codec"
	"service-admission/internal/infrastructure/registry"
	"service-admission/internal/interfaces"
	"service-admission/internal/usecase"
)

type (
	Price          = domain.Price
	DiscountKind   = domain.DiscountKind
	DiscountLine   = domain.DiscountLine
	AudienceRecord = domain.AudienceRecord
	ExecutionStep  = domain.ExecutionStep
	Result         = engine.Result

	Visitor           = model.Visitor
	Classification    = model.Classification
	Proof             = model.Proof
	Child             = model.Child
	Disability        = model.Disability
	Senior            = model.Senior
	Female            = model.Female
	ShareHolderTicket = model.ShareHolderTicket
	LoyaltyStamp      = model.LoyaltyStamp
	ShoppingReceipt   = model.ShoppingReceipt
	PremiumMembership = model.PremiumMembership
	DiscountVoucher   = model.DiscountVoucher

	GroupDocument = codec.GroupDocument
	Seed          = registry.Seed
	VoucherSeed   = registry.VoucherSeed
)

var (
	ErrInconsistentState = domain.ErrInconsistentState
	ErrDuplicateVisitor  = model.ErrDuplicateVisitor
	ErrInvalidDocument   = codec.ErrInvalidDocument
)

// Options configures a Calculator. A zero Today uses the current UTC date.
// RulesDir, when set, loads predicate rules for RulesVersion from disk.
type Options struct {
	BasePrice    Price
	Today        time.Time
	Seed         *Seed
	RulesDir     string
	RulesVersion string
	Logger       zerolog.Logger
}

type Calculator struct {
	svc interfaces.AdmissionFacade
}

// New builds a Calculator backed by in-memory registries seeded with the
// published shareholder tickets. A non-nil Seed is merged over them.
func New(ctx context.Context, opts Options) (*Calculator, error) {
	if opts.BasePrice <= 0 {
		return nil, fmt.Errorf("admission: base price must be positive, got %d", opts.BasePrice)
	}
	seed := registry.DefaultSeed()
	if opts.Seed != nil {
		seed = seed.Merge(*opts.Seed)
	}
	mem, err := registry.NewMemory(seed)
	if err != nil {
		return nil, fmt.Errorf("admission: %w", err)
	}

	var policy engine.Policy
	if opts.RulesDir != "" {
		version := opts.RulesVersion
		if version == "" {
			version = "v1"
		}
		pack, err := infrastructure.NewFileRuleLoader(opts.RulesDir).Load(ctx, version)
		if err != nil {
			return nil, fmt.Errorf("admission: %w", err)
		}
		p, err := infrastructure.NewJsonLogicPolicy(*pack, infrastructure.NewJsonLogicExecutor(), opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("admission: %w", err)
		}
		policy = p
	}

	cfg := clock{price: opts.BasePrice, fixed: opts.Today}
	e := interfaces.NewEngine(cfg, interfaces.Registries{Shareholders: mem, Members: mem, Events: mem}, policy)
	return &Calculator{svc: usecase.NewAdmissionService(e, opts.Logger, nil)}, nil
}

// Compute prices the given visitors in order.
func (c *Calculator) Compute(ctx context.Context, visitors ...Visitor) (*Result, error) {
	group, err := model.NewVisitorGroup(visitors...)
	if err != nil {
		return nil, err
	}
	return c.svc.ComputeAdmission(ctx, group)
}

// ComputeDocument validates and prices a decoded group document.
func (c *Calculator) ComputeDocument(ctx context.Context, doc GroupDocument) (*Result, error) {
	group, err := doc.ToModel()
	if err != nil {
		return nil, err
	}
	return c.svc.ComputeAdmission(ctx, group)
}

type clock struct {
	price Price
	fixed time.Time
}

func (c clock) BasePrice() Price { return c.price }

func (c clock) Today() time.Time {
	if !c.fixed.IsZero() {
		return c.fixed
	}
	return time.Now().UTC()
}
