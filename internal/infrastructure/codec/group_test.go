package codec_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
	"service-admission/internal/infrastructure/codec"
)

const groupJSON = `{
	"visitors": [
		{"id": "0b4c4f1e-8f55-4a43-9b3c-0d1b7f6f8a01", "classification": {"type": "disability"}},
		{"id": "0b4c4f1e-8f55-4a43-9b3c-0d1b7f6f8a02", "proofs": [
			{"type": "stamp", "count": 10},
			{"type": "receipt", "totalPayment": 5001},
			{"type": "voucher", "eventId": "7648285f-a001-4745-a7d3-53a880bf4320", "sequenceId": 3, "issueDate": "2024-05-01", "faceValue": 150}
		]},
		{"id": "0b4c4f1e-8f55-4a43-9b3c-0d1b7f6f8a03", "classification": {"type": "shareholder", "ticketId": "4a8e3117-57fa-4b03-b823-934933319d94"}}
	]
}`

const groupYAML = `
visitors:
  - id: 0b4c4f1e-8f55-4a43-9b3c-0d1b7f6f8a01
    classification:
      type: female
    proofs:
      - type: membership
        member_id: 5b491058-9893-4039-a158-94140067281e
`

func TestJSONDocumentToModel(t *testing.T) {
	var doc codec.GroupDocument
	require.NoError(t, json.Unmarshal([]byte(groupJSON), &doc))

	group, err := doc.ToModel()
	require.NoError(t, err)
	require.Equal(t, 3, group.Len())

	assert.Equal(t, model.Disability{}, group.Visitors[0].Classification)
	assert.Nil(t, group.Visitors[1].Classification)
	require.Len(t, group.Visitors[1].Proofs, 3)
	assert.Equal(t, model.LoyaltyStamp{Count: 10}, group.Visitors[1].Proofs[0])
	assert.Equal(t, model.ShoppingReceipt{TotalPayment: 5001}, group.Visitors[1].Proofs[1])

	voucher, ok := group.Visitors[1].Proofs[2].(model.DiscountVoucher)
	require.True(t, ok)
	assert.Equal(t, 3, voucher.SequenceID)
	assert.Equal(t, domain.Price(150), voucher.FaceValue)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), voucher.IssueDate)

	ticket, ok := group.Visitors[2].Classification.(model.ShareHolderTicket)
	require.True(t, ok)
	assert.Equal(t, "4a8e3117-57fa-4b03-b823-934933319d94", ticket.TicketID.String())
}

func TestYAMLDocumentToModel(t *testing.T) {
	var doc codec.GroupDocument
	require.NoError(t, yaml.Unmarshal([]byte(groupYAML), &doc))

	group, err := doc.ToModel()
	require.NoError(t, err)
	require.Equal(t, 1, group.Len())
	assert.Equal(t, model.Female{}, group.Visitors[0].Classification)
	require.Len(t, group.Visitors[0].Proofs, 1)
	assert.IsType(t, model.PremiumMembership{}, group.Visitors[0].Proofs[0])
}

func TestInvalidDocuments(t *testing.T) {
	id := "0b4c4f1e-8f55-4a43-9b3c-0d1b7f6f8a01"
	tests := []struct {
		name string
		doc  codec.GroupDocument
	}{
		{"empty group", codec.GroupDocument{}},
		{"bad visitor id", codec.GroupDocument{Visitors: []codec.VisitorDocument{{ID: "nope"}}}},
		{"unknown classification", codec.GroupDocument{Visitors: []codec.VisitorDocument{{
			ID: id, Classification: &codec.ClassificationDocument{Type: "student"},
		}}}},
		{"shareholder without ticket", codec.GroupDocument{Visitors: []codec.VisitorDocument{{
			ID: id, Classification: &codec.ClassificationDocument{Type: "shareholder"},
		}}}},
		{"stamp out of range", codec.GroupDocument{Visitors: []codec.VisitorDocument{{
			ID: id, Proofs: []codec.ProofDocument{{Type: "stamp", Count: 11}},
		}}}},
		{"voucher without date", codec.GroupDocument{Visitors: []codec.VisitorDocument{{
			ID: id, Proofs: []codec.ProofDocument{{Type: "voucher", EventID: id, FaceValue: 100}},
		}}}},
		{"negative receipt", codec.GroupDocument{Visitors: []codec.VisitorDocument{{
			ID: id, Proofs: []codec.ProofDocument{{Type: "receipt", TotalPayment: -1}},
		}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.doc.ToModel()
			require.ErrorIs(t, err, codec.ErrInvalidDocument)
		})
	}
}

func TestDuplicateVisitorsRejected(t *testing.T) {
	id := "0b4c4f1e-8f55-4a43-9b3c-0d1b7f6f8a01"
	doc := codec.GroupDocument{Visitors: []codec.VisitorDocument{{ID: id}, {ID: id}}}
	_, err := doc.ToModel()
	require.ErrorIs(t, err, model.ErrDuplicateVisitor)
}
