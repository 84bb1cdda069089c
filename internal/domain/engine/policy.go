package engine

import (
	"context"
	"time"

	"service-admission/internal/domain"
)

const (
	StampDiscount      domain.Price = 200
	ReceiptDiscount    domain.Price = 100
	MembershipDiscount domain.Price = 200
	ReceiptThreshold   domain.Price = 5000
)

// DefaultPolicy is the built-in rule set: discount day is any Wednesday outside
// the first three days of January, and receipts of 5000 or more qualify.
type DefaultPolicy struct{}

func (DefaultPolicy) IsDiscountDay(_ context.Context, day time.Time) bool {
	if day.Weekday() != time.Wednesday {
		return false
	}
	return day.Month() != time.January || day.Day() > 3
}

func (DefaultPolicy) ReceiptQualifies(_ context.Context, totalPayment domain.Price) bool {
	return totalPayment >= ReceiptThreshold
}
