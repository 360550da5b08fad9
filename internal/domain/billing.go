package domain

import "time"

// BillingPeriodStatus represents the payment state of a billing period
type BillingPeriodStatus string

const (
	BillingPeriodStatusDue  BillingPeriodStatus = "due"
	BillingPeriodStatusPaid BillingPeriodStatus = "paid"
	BillingPeriodStatusVoid BillingPeriodStatus = "void"
)

// SubscriptionBillingPeriod represents one invoicing interval of a
// subscription. Period bounds are dates (inclusive on both ends).
type SubscriptionBillingPeriod struct {
	ID             int64
	SubscriptionID int64
	PeriodStart    time.Time
	PeriodEnd      time.Time
	AmountDue      float64
	Status         BillingPeriodStatus

	// IsFinal marks the last period of a subscription with an end date
	IsFinal bool

	CreatedAt time.Time
}
