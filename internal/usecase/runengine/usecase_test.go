package runengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
	"service-admission/internal/infrastructure"
	"service-admission/internal/infrastructure/codec"
	"service-admission/internal/infrastructure/diff"
	"service-admission/internal/usecase"
	"service-admission/internal/usecase/runengine"
)

const (
	first  = "5b8f0c39-2c57-4bd1-9b7c-1a3a0f6d7e01"
	second = "5b8f0c39-2c57-4bd1-9b7c-1a3a0f6d7e02"
)

func newUseCase() *runengine.UseCase {
	wednesday := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	e := engine.New(engine.FixedPriceConfiguration{Price: 1000, Date: wednesday}, nil, nil, nil)
	return &runengine.UseCase{
		Admission: usecase.NewAdmissionService(e, zerolog.Nop(), nil),
		Differ:    &diff.Differ{},
	}
}

func doc() codec.GroupDocument {
	return codec.GroupDocument{Visitors: []codec.VisitorDocument{{ID: first}, {ID: second}}}
}

func TestRepriceAfterPatch(t *testing.T) {
	patch := []byte(`[
		{"op": "add", "path": "/visitors/1/classification", "value": {"type": "senior"}}
	]`)

	out, err := newUseCase().Run(context.Background(), doc(), patch)
	require.NoError(t, err)

	assert.Equal(t, domain.Price(2000), out.Before.Total())
	assert.Equal(t, domain.Price(1800), out.After.Total())
	require.Len(t, out.Delta, 1)
	assert.Equal(t, second, out.Delta[0].VisitorID.String())
	assert.Equal(t, domain.Price(1000), out.Delta[0].Before)
	assert.Equal(t, domain.Price(800), out.Delta[0].After)
	require.NotNil(t, out.Group.Visitors[1].Classification)
	assert.Equal(t, "senior", out.Group.Visitors[1].Classification.Type)
}

func TestRepriceNoChange(t *testing.T) {
	patch := []byte(`[{"op": "test", "path": "/visitors/0/id", "value": "` + first + `"}]`)

	out, err := newUseCase().Run(context.Background(), doc(), patch)
	require.NoError(t, err)
	assert.Empty(t, out.Delta)
	assert.NotNil(t, out.Delta)
}

func TestRepriceRejectsBadInput(t *testing.T) {
	uc := newUseCase()

	_, err := uc.Run(context.Background(), doc(), []byte(`{"op": "add"}`))
	assert.ErrorIs(t, err, infrastructure.ErrInvalidPatch)

	_, err = uc.Run(context.Background(), doc(), []byte(`[{"op": "remove", "path": "/visitors/5"}]`))
	assert.ErrorIs(t, err, infrastructure.ErrInvalidPatch)

	_, err = uc.Run(context.Background(), doc(), []byte(`[{"op": "replace", "path": "/visitors/1/id", "value": "nope"}]`))
	assert.ErrorIs(t, err, codec.ErrInvalidDocument)

	_, err = uc.Run(context.Background(), codec.GroupDocument{}, []byte(`[]`))
	assert.ErrorIs(t, err, codec.ErrInvalidDocument)
}
