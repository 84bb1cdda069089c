package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

func TestCompileAudienceMissingEntry(t *testing.T) {
	known := model.Visitor{ID: uuid.New()}
	missing := model.Visitor{ID: uuid.New()}

	fc := NewFeeContext(1000, time.Now())
	fc.Set(known.ID, 1000)

	_, err := compileAudience(fc, model.VisitorGroup{Visitors: []model.Visitor{known, missing}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInconsistentState))
	assert.Contains(t, err.Error(), missing.ID.String())
}

func TestFeeContextKeepsInsertionOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	fc := NewFeeContext(1000, time.Now())
	fc.Set(a, 1000)
	fc.Set(b, 500)
	fc.Set(c, 1000)
	fc.Set(a, 800, domain.DiscountLine{Amount: 200, Kind: domain.KindDisability})

	var seen []uuid.UUID
	fc.Each(func(id uuid.UUID, _ *Entry) bool {
		seen = append(seen, id)
		return true
	})
	assert.Equal(t, []uuid.UUID{a, b, c}, seen)

	e, ok := fc.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, domain.Price(800), e.Price)
	assert.True(t, e.HasKind(domain.KindDisability))
}

func TestDeductNeverCrossesHalf(t *testing.T) {
	id := uuid.New()
	fc := NewFeeContext(1000, time.Now())
	fc.Set(id, 560)
	e, _ := fc.Lookup(id)

	cut := fc.Deduct(id, e, 200, domain.KindStamp, "stamp")
	assert.Equal(t, domain.Price(60), cut)
	assert.Equal(t, domain.Price(500), e.Price)
	assert.Len(t, fc.Steps(), 1)
}

func TestSetDropsStepsOfReplacedEntry(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	fc := NewFeeContext(1000, time.Now())
	fc.Set(a, 500, domain.DiscountLine{Amount: 500, Kind: domain.KindChild})
	fc.Set(b, 800, domain.DiscountLine{Amount: 200, Kind: domain.KindDisability})
	fc.Set(a, 0, domain.DiscountLine{Amount: 1000, Kind: domain.KindShareholder})

	steps := fc.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, b, steps[0].VisitorID)
	assert.Equal(t, a, steps[1].VisitorID)
	assert.Equal(t, domain.KindShareholder, steps[1].Kind)
}
