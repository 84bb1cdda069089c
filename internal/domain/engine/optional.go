package engine

import (
	"context"

	"github.com/google/uuid"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

const (
	labelStamp      = "loyalty stamp"
	labelReceipt    = "shopping receipt"
	labelMembership = "premium membership"
	labelVoucher    = "discount voucher"
)

// applyOptional layers presented proofs over the base prices. No proof can take
// a visitor below half the base price, and each kind applies at most once per
// visitor.
func (e *Engine) applyOptional(ctx context.Context, fc *FeeContext, group model.VisitorGroup) {
	fc.Phase = PhaseOptional
	offered := group.Offered()

	for _, v := range group.Visitors {
		entry, ok := fc.Lookup(v.ID)
		if !ok {
			continue
		}

		if stamp, ok := v.Stamp(); ok && stamp.Count == model.MaxStamp && entry.Price > fc.Half {
			fc.Deduct(v.ID, entry, StampDiscount, domain.KindStamp, labelStamp)
		}

		for _, o := range offered {
			if !o.AppliesTo(v.ID) || entry.HasKind(o.Proof.Kind()) {
				continue
			}
			e.applyProof(ctx, fc, v.ID, entry, o.Proof)
		}
	}
}

func (e *Engine) applyProof(ctx context.Context, fc *FeeContext, id uuid.UUID, entry *Entry, proof model.Proof) {
	if entry.Price <= fc.Half {
		return
	}
	switch p := proof.(type) {
	case model.ShoppingReceipt:
		if e.policy.ReceiptQualifies(ctx, p.TotalPayment) {
			fc.Deduct(id, entry, ReceiptDiscount, domain.KindReceipt, labelReceipt)
		}
	case model.PremiumMembership:
		if e.members.IsValidMember(ctx, p.MemberID) {
			fc.Deduct(id, entry, MembershipDiscount, domain.KindMembership, labelMembership)
		}
	case model.DiscountVoucher:
		if p.FaceValue < entry.Price && e.events.IsValidVoucher(ctx, p) {
			fc.Deduct(id, entry, p.FaceValue, domain.KindVoucher, labelVoucher)
		}
	}
}
