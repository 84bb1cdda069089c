package registry

import (
	"context"

	"github.com/google/uuid"

	"service-admission/internal/domain/model"
)

// Memory answers registry lookups from fixed in-process sets.
type Memory struct {
	tickets  map[string]struct{}
	members  map[string]struct{}
	vouchers map[string]struct{}
}

func NewMemory(seed Seed) (*Memory, error) {
	parsed, err := seed.parse()
	if err != nil {
		return nil, err
	}
	return &Memory{
		tickets:  toSet(parsed.tickets),
		members:  toSet(parsed.members),
		vouchers: toSet(parsed.vouchers),
	}, nil
}

func (m *Memory) IsPublished(_ context.Context, ticketID uuid.UUID) bool {
	_, ok := m.tickets[ticketID.String()]
	return ok
}

func (m *Memory) IsValidMember(_ context.Context, memberID uuid.UUID) bool {
	_, ok := m.members[memberID.String()]
	return ok
}

func (m *Memory) IsValidVoucher(_ context.Context, voucher model.DiscountVoucher) bool {
	_, ok := m.vouchers[VoucherKey(voucher)]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
