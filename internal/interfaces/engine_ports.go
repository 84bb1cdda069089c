package interfaces

import (
	"context"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
	"service-admission/internal/domain/model"
)

// RulePackLoader loads versioned rule packs (from disk, network, etc.).
type RulePackLoader interface {
	Load(ctx context.Context, version string) (*domain.RulePackDefinition, error)
}

// FeeEngine runs one fee computation.
type FeeEngine interface {
	Run(ctx context.Context, group model.VisitorGroup) (engine.Result, error)
}

// AdmissionFacade is the application entry point for fee computation.
type AdmissionFacade interface {
	ComputeAdmission(ctx context.Context, group model.VisitorGroup) (*engine.Result, error)
}

// Registries bundles the validity lookups the engine depends on.
type Registries struct {
	Shareholders engine.ShareholderRegistry
	Members      engine.MembershipRegistry
	Events       engine.EventRegistry
}
