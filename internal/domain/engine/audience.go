package engine

import (
	"fmt"
	"slices"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

// compileAudience turns the working state into output records in input order.
// Shareholder visits carry the stamp over instead of advancing it.
func compileAudience(fc *FeeContext, group model.VisitorGroup) ([]domain.AudienceRecord, error) {
	fc.Phase = PhaseCompile
	records := make([]domain.AudienceRecord, 0, group.Len())

	for _, v := range group.Visitors {
		entry, ok := fc.Lookup(v.ID)
		if !ok {
			return nil, fmt.Errorf("visitor %s has no price entry (%d entries): %w", v.ID, fc.Len(), domain.ErrInconsistentState)
		}

		stamp := v.NextStamp()
		if entry.HasKind(domain.KindShareholder) {
			current, _ := v.Stamp()
			stamp = current.Count
		}

		discounts := slices.Clone(entry.Discounts)
		if discounts == nil {
			discounts = []domain.DiscountLine{}
		}
		records = append(records, domain.AudienceRecord{
			VisitorID: v.ID,
			Stamp:     stamp,
			Price:     entry.Price,
			Discounts: discounts,
		})
	}
	return records, nil
}
