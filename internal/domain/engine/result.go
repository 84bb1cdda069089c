package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"service-admission/internal/domain"
)

// Result is the full outcome of one computation.
type Result struct {
	Records   []domain.AudienceRecord `json:"records"`
	Steps     []domain.ExecutionStep  `json:"steps"`
	BasePrice domain.Price            `json:"basePrice"`
	Today     time.Time               `json:"today"`
}

// Total sums the final prices of all records.
func (r Result) Total() domain.Price {
	var total domain.Price
	for _, rec := range r.Records {
		total += rec.Price
	}
	return total
}

// Entry is a visitor's working price and the lines recorded so far.
type Entry struct {
	Price     domain.Price
	Discounts []domain.DiscountLine
}

func (e *Entry) HasKind(kind domain.DiscountKind) bool {
	for _, d := range e.Discounts {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// FeeContext is the working state shared by the pricing phases of a single
// computation. Entries keep insertion order.
type FeeContext struct {
	Phase PipelinePhase
	Base  domain.Price
	Half  domain.Price
	Today time.Time

	order   []uuid.UUID
	entries map[uuid.UUID]*Entry
	steps   []domain.ExecutionStep
}

func NewFeeContext(base domain.Price, today time.Time) *FeeContext {
	return &FeeContext{
		Base:    base,
		Half:    base / 2,
		Today:   today,
		entries: make(map[uuid.UUID]*Entry),
	}
}

// Set replaces the visitor's entry. A visitor seen before keeps its position
// and loses the steps recorded for the replaced entry.
func (c *FeeContext) Set(id uuid.UUID, price domain.Price, lines ...domain.DiscountLine) {
	if _, ok := c.entries[id]; ok {
		c.steps = slices.DeleteFunc(c.steps, func(s domain.ExecutionStep) bool { return s.VisitorID == id })
	} else {
		c.order = append(c.order, id)
	}
	c.entries[id] = &Entry{Price: price, Discounts: lines}
	for _, l := range lines {
		c.record(id, l)
	}
}

func (c *FeeContext) Lookup(id uuid.UUID) (*Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Each visits entries in insertion order until fn returns false.
func (c *FeeContext) Each(fn func(id uuid.UUID, e *Entry) bool) {
	for _, id := range c.order {
		if !fn(id, c.entries[id]) {
			return
		}
	}
}

func (c *FeeContext) Len() int { return len(c.order) }

// Deduct lowers the entry's price by up to amount without going below Half
// and records the line. It returns the amount actually deducted.
func (c *FeeContext) Deduct(id uuid.UUID, e *Entry, amount domain.Price, kind domain.DiscountKind, label string) domain.Price {
	cut := amount.Min(e.Price.Sub(c.Half))
	e.Price -= cut
	line := domain.DiscountLine{Amount: cut, Label: label, Kind: kind}
	e.Discounts = append(e.Discounts, line)
	c.record(id, line)
	return cut
}

func (c *FeeContext) Steps() []domain.ExecutionStep {
	return c.steps
}

func (c *FeeContext) record(id uuid.UUID, l domain.DiscountLine) {
	c.steps = append(c.steps, domain.ExecutionStep{
		Phase:     string(c.Phase),
		VisitorID: id,
		Kind:      l.Kind,
		Amount:    l.Amount,
		Message:   fmt.Sprintf("applied %s (-%d)", l.Label, l.Amount),
	})
}
