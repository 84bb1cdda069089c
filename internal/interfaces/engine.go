package interfaces

import (
	"service-admission/internal/domain/engine"
)

// NewEngine wires an engine from a price configuration, registries and an
// optional policy override.
func NewEngine(cfg engine.PriceConfiguration, regs Registries, policy engine.Policy) *engine.Engine {
	return engine.New(cfg, regs.Shareholders, regs.Members, regs.Events, engine.WithPolicy(policy))
}
