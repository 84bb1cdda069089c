package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

// ErrInvalidDocument is returned when a group document fails validation.
var ErrInvalidDocument = errors.New("invalid group document")

var validate = validator.New(validator.WithRequiredStructEnabled())

// GroupDocument is the wire and file form of a visitor group.
type GroupDocument struct {
	Visitors []VisitorDocument `json:"visitors" yaml:"visitors" validate:"required,min=1,dive"`
}

type VisitorDocument struct {
	ID             string                  `json:"id" yaml:"id" validate:"required"`
	Classification *ClassificationDocument `json:"classification,omitempty" yaml:"classification,omitempty"`
	Proofs         []ProofDocument         `json:"proofs,omitempty" yaml:"proofs,omitempty" validate:"dive"`
}

type ClassificationDocument struct {
	Type     string `json:"type" yaml:"type" validate:"required,oneof=child disability senior female shareholder"`
	TicketID string `json:"ticketId,omitempty" yaml:"ticket_id,omitempty"`
	OwnerID  string `json:"ownerId,omitempty" yaml:"owner_id,omitempty"`
}

type ProofDocument struct {
	Type         string `json:"type" yaml:"type" validate:"required,oneof=stamp receipt membership voucher"`
	Count        int    `json:"count,omitempty" yaml:"count,omitempty" validate:"min=0,max=10"`
	TotalPayment int64  `json:"totalPayment,omitempty" yaml:"total_payment,omitempty" validate:"min=0"`
	MemberID     string `json:"memberId,omitempty" yaml:"member_id,omitempty"`
	EventID      string `json:"eventId,omitempty" yaml:"event_id,omitempty"`
	SequenceID   int    `json:"sequenceId,omitempty" yaml:"sequence_id,omitempty"`
	IssueDate    string `json:"issueDate,omitempty" yaml:"issue_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FaceValue    int64  `json:"faceValue,omitempty" yaml:"face_value,omitempty" validate:"min=0"`
}

// Validate checks the document's structure.
func (d GroupDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// ToModel validates the document and converts it to a visitor group.
func (d GroupDocument) ToModel() (model.VisitorGroup, error) {
	if err := d.Validate(); err != nil {
		return model.VisitorGroup{}, err
	}
	visitors := make([]model.Visitor, 0, len(d.Visitors))
	for i, vd := range d.Visitors {
		v, err := vd.toModel()
		if err != nil {
			return model.VisitorGroup{}, fmt.Errorf("%w: visitors[%d]: %v", ErrInvalidDocument, i, err)
		}
		visitors = append(visitors, v)
	}
	return model.NewVisitorGroup(visitors...)
}

func (vd VisitorDocument) toModel() (model.Visitor, error) {
	id, err := uuid.Parse(vd.ID)
	if err != nil {
		return model.Visitor{}, err
	}
	v := model.Visitor{ID: id}

	if c := vd.Classification; c != nil {
		switch c.Type {
		case "child":
			v.Classification = model.Child{}
		case "disability":
			v.Classification = model.Disability{}
		case "senior":
			v.Classification = model.Senior{}
		case "female":
			v.Classification = model.Female{}
		case "shareholder":
			ticket, err := uuid.Parse(c.TicketID)
			if err != nil {
				return model.Visitor{}, fmt.Errorf("ticket id: %w", err)
			}
			ticketHolder := model.ShareHolderTicket{TicketID: ticket}
			if c.OwnerID != "" {
				if ticketHolder.OwnerID, err = uuid.Parse(c.OwnerID); err != nil {
					return model.Visitor{}, fmt.Errorf("owner id: %w", err)
				}
			}
			v.Classification = ticketHolder
		}
	}

	for _, pd := range vd.Proofs {
		p, err := pd.toModel()
		if err != nil {
			return model.Visitor{}, err
		}
		v.Proofs = append(v.Proofs, p)
	}
	return v, nil
}

func (pd ProofDocument) toModel() (model.Proof, error) {
	switch pd.Type {
	case "stamp":
		return model.LoyaltyStamp{Count: pd.Count}, nil
	case "receipt":
		return model.ShoppingReceipt{TotalPayment: domain.Price(pd.TotalPayment)}, nil
	case "membership":
		id, err := uuid.Parse(pd.MemberID)
		if err != nil {
			return nil, fmt.Errorf("member id: %w", err)
		}
		return model.PremiumMembership{MemberID: id}, nil
	case "voucher":
		event, err := uuid.Parse(pd.EventID)
		if err != nil {
			return nil, fmt.Errorf("event id: %w", err)
		}
		issued, err := time.Parse(time.DateOnly, pd.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("issue date: %w", err)
		}
		return model.DiscountVoucher{
			EventID:    event,
			SequenceID: pd.SequenceID,
			IssueDate:  issued,
			FaceValue:  domain.Price(pd.FaceValue),
		}, nil
	}
	return nil, fmt.Errorf("unknown proof type %q", pd.Type)
}
