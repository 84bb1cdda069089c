package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"service-admission/internal/domain"
)

var (
	// ErrDuplicateVisitor is returned when two visitors in a group share an id.
	ErrDuplicateVisitor = errors.New("duplicate visitor id")
	// ErrStampOutOfRange is returned for loyalty stamps outside 0..10.
	ErrStampOutOfRange = errors.New("loyalty stamp out of range")
	// ErrNegativeAmount is returned for proofs carrying a negative amount.
	ErrNegativeAmount = errors.New("negative amount")
)

// MaxStamp is the stamp count that earns the loyalty reduction.
const MaxStamp = 10

// Classification is the fixed category a visitor is admitted under.
type Classification interface {
	classification()
}

type (
	Child      struct{}
	Disability struct{}
	Senior     struct{}
	Female     struct{}

	// ShareHolderTicket grants free admission to the whole group when published.
	ShareHolderTicket struct {
		TicketID uuid.UUID
		OwnerID  uuid.UUID
	}
)

func (Child) classification()             {}
func (Disability) classification()        {}
func (Senior) classification()            {}
func (Female) classification()            {}
func (ShareHolderTicket) classification() {}

// Proof is an optional discount credential presented alongside a visitor.
type Proof interface {
	// Kind is the discount kind this proof produces.
	Kind() domain.DiscountKind
	// ForAll reports whether the proof benefits every visitor in the group.
	ForAll() bool
}

type (
	LoyaltyStamp struct {
		Count int
	}

	ShoppingReceipt struct {
		TotalPayment domain.Price
	}

	PremiumMembership struct {
		MemberID uuid.UUID
	}

	DiscountVoucher struct {
		EventID    uuid.UUID
		SequenceID int
		IssueDate  time.Time
		FaceValue  domain.Price
	}
)

func (LoyaltyStamp) Kind() domain.DiscountKind      { return domain.KindStamp }
func (LoyaltyStamp) ForAll() bool                   { return false }
func (ShoppingReceipt) Kind() domain.DiscountKind   { return domain.KindReceipt }
func (ShoppingReceipt) ForAll() bool                { return true }
func (PremiumMembership) Kind() domain.DiscountKind { return domain.KindMembership }
func (PremiumMembership) ForAll() bool              { return true }
func (DiscountVoucher) Kind() domain.DiscountKind   { return domain.KindVoucher }
func (DiscountVoucher) ForAll() bool                { return true }

// Visitor is one member of a visitor group.
type Visitor struct {
	ID             uuid.UUID
	Classification Classification
	Proofs         []Proof
}

// Stamp returns the first loyalty stamp the visitor presents.
func (v Visitor) Stamp() (LoyaltyStamp, bool) {
	for _, p := range v.Proofs {
		if s, ok := p.(LoyaltyStamp); ok {
			return s, true
		}
	}
	return LoyaltyStamp{}, false
}

// NextStamp is the stamp value after a regular visit: 1 when absent or
// complete, otherwise one more.
func (v Visitor) NextStamp() int {
	s, ok := v.Stamp()
	if !ok || s.Count >= MaxStamp {
		return 1
	}
	return s.Count + 1
}

// Validate checks proof values.
func (v Visitor) Validate() error {
	for _, p := range v.Proofs {
		switch p := p.(type) {
		case LoyaltyStamp:
			if p.Count < 0 || p.Count > MaxStamp {
				return fmt.Errorf("visitor %s: %w: %d", v.ID, ErrStampOutOfRange, p.Count)
			}
		case ShoppingReceipt:
			if p.TotalPayment < 0 {
				return fmt.Errorf("visitor %s: receipt: %w", v.ID, ErrNegativeAmount)
			}
		case DiscountVoucher:
			if p.FaceValue < 0 {
				return fmt.Errorf("visitor %s: voucher: %w", v.ID, ErrNegativeAmount)
			}
		}
	}
	return nil
}

// Offered pairs a proof with the visitor who presented it.
type Offered struct {
	Presenter uuid.UUID
	Proof     Proof
}

// AppliesTo reports whether the offered proof may discount the given visitor.
func (o Offered) AppliesTo(visitorID uuid.UUID) bool {
	return o.Proof.ForAll() || o.Presenter == visitorID
}

// VisitorGroup is the unit of computation.
type VisitorGroup struct {
	Visitors []Visitor
}

// NewVisitorGroup validates visitors and builds a group.
func NewVisitorGroup(visitors ...Visitor) (VisitorGroup, error) {
	seen := make(map[uuid.UUID]struct{}, len(visitors))
	for _, v := range visitors {
		if _, dup := seen[v.ID]; dup {
			return VisitorGroup{}, fmt.Errorf("%w: %s", ErrDuplicateVisitor, v.ID)
		}
		seen[v.ID] = struct{}{}
		if err := v.Validate(); err != nil {
			return VisitorGroup{}, err
		}
	}
	return VisitorGroup{Visitors: visitors}, nil
}

// Len returns the number of visitors.
func (g VisitorGroup) Len() int { return len(g.Visitors) }

// Offered lists every presented proof in group order, then proof order.
func (g VisitorGroup) Offered() []Offered {
	var out []Offered
	for _, v := range g.Visitors {
		for _, p := range v.Proofs {
			out = append(out, Offered{Presenter: v.ID, Proof: p})
		}
	}
	return out
}
