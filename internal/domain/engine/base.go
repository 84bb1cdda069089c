package engine

import (
	"context"

	"github.com/google/uuid"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

const (
	labelShareholder = "shareholder"
	labelChild       = "child"
	labelDisability  = "disability"
	labelCompanion   = "disability companion"
	labelSenior      = "senior"
	labelFemale      = "female"
)

// basePrices holds the classification price points for one base price.
// p80 and p20 split on truncating division, so p20 is not an exact fifth.
type basePrices struct {
	full domain.Price
	p80  domain.Price
	p20  domain.Price
	p50  domain.Price
}

func newBasePrices(base domain.Price) basePrices {
	p80 := base * 4 / 5
	return basePrices{full: base, p80: p80, p20: base - p80, p50: base / 2}
}

// resolveBase sets every visitor's classification price in one forward pass.
// companionCredit carries an unclaimed disability companion discount to the
// next unclassified visitor.
func (e *Engine) resolveBase(ctx context.Context, fc *FeeContext, group model.VisitorGroup) {
	fc.Phase = PhaseBase
	bp := newBasePrices(fc.Base)
	companionCredit := false

	for _, v := range group.Visitors {
		switch c := v.Classification.(type) {
		case nil:
			if companionCredit {
				fc.Set(v.ID, bp.p80, line(bp.p20, labelCompanion, domain.KindDisability))
				companionCredit = false
				continue
			}
			fc.Set(v.ID, bp.full)

		case model.ShareHolderTicket:
			if e.shareholders.IsPublished(ctx, c.TicketID) {
				for _, g := range group.Visitors {
					fc.Set(g.ID, 0, line(bp.full, labelShareholder, domain.KindShareholder))
				}
				return
			}
			fc.Set(v.ID, bp.full)

		case model.Child:
			fc.Set(v.ID, bp.p50, line(bp.p50, labelChild, domain.KindChild))

		case model.Disability:
			fc.Set(v.ID, bp.p80, line(bp.p20, labelDisability, domain.KindDisability))
			if !claimCompanion(fc, bp) {
				companionCredit = true
			}

		case model.Senior:
			e.resolveDiscountDay(ctx, fc, v.ID, bp, labelSenior, domain.KindSenior)

		case model.Female:
			e.resolveDiscountDay(ctx, fc, v.ID, bp, labelFemale, domain.KindFemale)

		default:
			fc.Set(v.ID, bp.full)
		}
	}
}

// claimCompanion moves the companion discount onto the earliest visitor still
// at full price.
func claimCompanion(fc *FeeContext, bp basePrices) bool {
	var companion uuid.UUID
	found := false
	fc.Each(func(id uuid.UUID, e *Entry) bool {
		if e.Price == bp.full {
			companion, found = id, true
			return false
		}
		return true
	})
	if found {
		fc.Set(companion, bp.p80, line(bp.p20, labelCompanion, domain.KindDisability))
	}
	return found
}

func (e *Engine) resolveDiscountDay(ctx context.Context, fc *FeeContext, id uuid.UUID, bp basePrices, label string, kind domain.DiscountKind) {
	if e.policy.IsDiscountDay(ctx, fc.Today) {
		fc.Set(id, bp.p80, line(bp.p20, label, kind))
		return
	}
	fc.Set(id, bp.full)
}

func line(amount domain.Price, label string, kind domain.DiscountKind) domain.DiscountLine {
	return domain.DiscountLine{Amount: amount, Label: label, Kind: kind}
}
