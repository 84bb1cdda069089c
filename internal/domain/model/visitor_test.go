package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

func TestNewVisitorGroupRejectsDuplicates(t *testing.T) {
	id := uuid.New()
	_, err := model.NewVisitorGroup(model.Visitor{ID: id}, model.Visitor{ID: id})
	require.ErrorIs(t, err, model.ErrDuplicateVisitor)
}

func TestNewVisitorGroupValidatesProofs(t *testing.T) {
	tests := []struct {
		name  string
		proof model.Proof
		want  error
	}{
		{"stamp above ten", model.LoyaltyStamp{Count: 11}, model.ErrStampOutOfRange},
		{"negative stamp", model.LoyaltyStamp{Count: -1}, model.ErrStampOutOfRange},
		{"negative receipt", model.ShoppingReceipt{TotalPayment: -1}, model.ErrNegativeAmount},
		{"negative voucher", model.DiscountVoucher{FaceValue: -5}, model.ErrNegativeAmount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.NewVisitorGroup(model.Visitor{ID: uuid.New(), Proofs: []model.Proof{tc.proof}})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNextStamp(t *testing.T) {
	assert.Equal(t, 1, model.Visitor{}.NextStamp())
	assert.Equal(t, 1, model.Visitor{Proofs: []model.Proof{model.LoyaltyStamp{Count: 10}}}.NextStamp())
	assert.Equal(t, 6, model.Visitor{Proofs: []model.Proof{model.LoyaltyStamp{Count: 5}}}.NextStamp())

	first := model.Visitor{Proofs: []model.Proof{
		model.ShoppingReceipt{TotalPayment: 1},
		model.LoyaltyStamp{Count: 2},
		model.LoyaltyStamp{Count: 9},
	}}
	s, ok := first.Stamp()
	require.True(t, ok)
	assert.Equal(t, 2, s.Count)
}

func TestOfferedOrderAndReach(t *testing.T) {
	a := model.Visitor{ID: uuid.New(), Proofs: []model.Proof{
		model.LoyaltyStamp{Count: 3},
		model.ShoppingReceipt{TotalPayment: 5000},
	}}
	b := model.Visitor{ID: uuid.New(), Proofs: []model.Proof{model.PremiumMembership{MemberID: uuid.New()}}}
	group, err := model.NewVisitorGroup(a, b)
	require.NoError(t, err)

	offered := group.Offered()
	require.Len(t, offered, 3)
	assert.Equal(t, domain.KindStamp, offered[0].Proof.Kind())
	assert.Equal(t, domain.KindReceipt, offered[1].Proof.Kind())
	assert.Equal(t, domain.KindMembership, offered[2].Proof.Kind())

	assert.True(t, offered[0].AppliesTo(a.ID))
	assert.False(t, offered[0].AppliesTo(b.ID))
	assert.True(t, offered[1].AppliesTo(b.ID))
	assert.True(t, offered[2].AppliesTo(a.ID))
}
