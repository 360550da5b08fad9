package domain

import "time"

// PaymentFrequency represents how often a subscription is billed
type PaymentFrequency string

const (
	FrequencyWeekly      PaymentFrequency = "weekly"
	FrequencyFortnightly PaymentFrequency = "fortnightly"
	FrequencyMonthly     PaymentFrequency = "monthly"
)

// Valid returns true if the frequency is one of the known values
func (f PaymentFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// PeriodExtraDays returns how many days a billing period spans beyond its
// start date: a weekly period covers start plus 6 more days, and so on.
func (f PaymentFrequency) PeriodExtraDays() int {
	switch f {
	case FrequencyWeekly:
		return 6
	case FrequencyFortnightly:
		return 13
	case FrequencyMonthly:
		return 27
	default:
		return 0
	}
}

// SubscriptionStatus represents the status of a client subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// ClientSubscription represents a recurring training agreement between a
// client and a trainer, billed per period.
type ClientSubscription struct {
	ID                int64
	ClientID          int64
	TrainerID         int64
	BillingCycleStart time.Time
	PaymentFrequency  PaymentFrequency
	BillingAmount     float64
	Status            SubscriptionStatus
	EndDate           *time.Time

	Allocations []SubscriptionServiceAllocation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the subscription can be booked against
func (s *ClientSubscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// AllocationForServiceType returns the allocation for the given service type,
// or nil if the subscription does not cover it
func (s *ClientSubscription) AllocationForServiceType(serviceTypeID int64) *SubscriptionServiceAllocation {
	for i := range s.Allocations {
		if s.Allocations[i].ServiceTypeID == serviceTypeID {
			return &s.Allocations[i]
		}
	}
	return nil
}

// SubscriptionServiceAllocation maps a subscription to a service type with a
// per-period quantity and a per-session cost. The per-period quantity is not
// enforced at booking time.
type SubscriptionServiceAllocation struct {
	ID                int64
	SubscriptionID    int64
	ServiceTypeID     int64
	QuantityPerPeriod int
	CostPerSession    float64
}

// CreditStatus represents the lifecycle of a subscription session credit
type CreditStatus string

const (
	CreditStatusAvailable CreditStatus = "available"
	CreditStatusConsumed  CreditStatus = "consumed"
)

// SubscriptionSessionCredit is a reusable entitlement unit minted when a
// subscription-sourced session is cancelled. At most one credit ever exists
// per originating session.
type SubscriptionSessionCredit struct {
	ID              int64
	SubscriptionID  int64
	ServiceTypeID   int64
	CreditValue     float64
	Status          CreditStatus
	OriginSessionID int64
	CreatedAt       time.Time
}
