package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-admission/internal/domain"
	"service-admission/internal/domain/model"
)

// PriceConfiguration supplies the event's base price and the current date.
type PriceConfiguration interface {
	BasePrice() domain.Price
	Today() time.Time
}

// ShareholderRegistry answers whether a shareholder ticket has been published.
type ShareholderRegistry interface {
	IsPublished(ctx context.Context, ticketID uuid.UUID) bool
}

// MembershipRegistry answers whether a premium member id is valid.
type MembershipRegistry interface {
	IsValidMember(ctx context.Context, memberID uuid.UUID) bool
}

// EventRegistry answers whether a discount voucher was issued for its event.
type EventRegistry interface {
	IsValidVoucher(ctx context.Context, voucher model.DiscountVoucher) bool
}

// Policy holds the calendar and threshold predicates that rule packs may override.
type Policy interface {
	IsDiscountDay(ctx context.Context, day time.Time) bool
	ReceiptQualifies(ctx context.Context, totalPayment domain.Price) bool
}

type ShareholderRegistryFunc func(ctx context.Context, ticketID uuid.UUID) bool

func (f ShareholderRegistryFunc) IsPublished(ctx context.Context, ticketID uuid.UUID) bool {
	return f(ctx, ticketID)
}

type MembershipRegistryFunc func(ctx context.Context, memberID uuid.UUID) bool

func (f MembershipRegistryFunc) IsValidMember(ctx context.Context, memberID uuid.UUID) bool {
	return f(ctx, memberID)
}

type EventRegistryFunc func(ctx context.Context, voucher model.DiscountVoucher) bool

func (f EventRegistryFunc) IsValidVoucher(ctx context.Context, voucher model.DiscountVoucher) bool {
	return f(ctx, voucher)
}

// FixedPriceConfiguration is a PriceConfiguration with constant values.
type FixedPriceConfiguration struct {
	Price domain.Price
	Date  time.Time
}

func (c FixedPriceConfiguration) BasePrice() domain.Price { return c.Price }
func (c FixedPriceConfiguration) Today() time.Time        { return c.Date }
