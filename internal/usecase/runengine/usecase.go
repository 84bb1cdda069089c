package runengine

import (
	"context"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
	"service-admission/internal/infrastructure"
	"service-admission/internal/infrastructure/codec"
	"service-admission/internal/infrastructure/diff"
	"service-admission/internal/interfaces"
)

// UseCase reprices a group after a JSON patch and reports which visitors'
// prices moved.
type UseCase struct {
	Admission interfaces.AdmissionFacade
	Differ    Differ
}

type Differ interface {
	Diff(before, after []domain.AudienceRecord) []diff.PriceChange
}

type Repriced struct {
	Group  codec.GroupDocument `json:"group"`
	Before *engine.Result      `json:"before"`
	After  *engine.Result      `json:"after"`
	Delta  []diff.PriceChange  `json:"delta"`
}

func (u *UseCase) Run(ctx context.Context, doc codec.GroupDocument, patch []byte) (Repriced, error) {
	group, err := doc.ToModel()
	if err != nil {
		return Repriced{}, err
	}
	updatedDoc, err := infrastructure.ApplyGroupPatch(doc, patch)
	if err != nil {
		return Repriced{}, err
	}
	updated, err := updatedDoc.ToModel()
	if err != nil {
		return Repriced{}, err
	}

	before, err := u.Admission.ComputeAdmission(ctx, group)
	if err != nil {
		return Repriced{}, err
	}
	after, err := u.Admission.ComputeAdmission(ctx, updated)
	if err != nil {
		return Repriced{}, err
	}

	delta := u.Differ.Diff(before.Records, after.Records)
	if delta == nil {
		delta = []diff.PriceChange{}
	}
	return Repriced{Group: updatedDoc, Before: before, After: after, Delta: delta}, nil
}
