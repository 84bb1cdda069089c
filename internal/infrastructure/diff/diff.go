package diff

import (
	"github.com/google/uuid"

	"service-admission/internal/domain"
)

// PriceChange is a visitor whose final price differs between two computations.
type PriceChange struct {
	VisitorID uuid.UUID    `json:"visitorId"`
	Before    domain.Price `json:"before"`
	After     domain.Price `json:"after"`
	Added     bool         `json:"added,omitempty"`
	Removed   bool         `json:"removed,omitempty"`
}

type Differ struct{}

// Diff lists price changes in the order of after, followed by removed visitors
// in the order of before.
func (d *Differ) Diff(before, after []domain.AudienceRecord) []PriceChange {
	prev := make(map[uuid.UUID]domain.Price, len(before))
	for _, r := range before {
		prev[r.VisitorID] = r.Price
	}

	var delta []PriceChange
	seen := make(map[uuid.UUID]struct{}, len(after))
	for _, r := range after {
		seen[r.VisitorID] = struct{}{}
		old, ok := prev[r.VisitorID]
		switch {
		case !ok:
			delta = append(delta, PriceChange{VisitorID: r.VisitorID, After: r.Price, Added: true})
		case old != r.Price:
			delta = append(delta, PriceChange{VisitorID: r.VisitorID, Before: old, After: r.Price})
		}
	}
	for _, r := range before {
		if _, ok := seen[r.VisitorID]; !ok {
			delta = append(delta, PriceChange{VisitorID: r.VisitorID, Before: r.Price, Removed: true})
		}
	}
	return delta
}
