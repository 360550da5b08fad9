package get_entitlements

import (
	listEntitlements "github.com/m1shk4/PTS-BookingService/internal/usecase/list_entitlements"
)

// PackOptionResponse доступный пакет
type PackOptionResponse struct {
	PackID            int64 `json:"packId"`
	TotalSessions     int   `json:"totalSessions"`
	SessionsRemaining int   `json:"sessionsRemaining"`
}

// SubscriptionOptionResponse доступный абонемент
type SubscriptionOptionResponse struct {
	SubscriptionID   int64   `json:"subscriptionId"`
	PaymentFrequency string  `json:"paymentFrequency"`
	CostPerSession   float64 `json:"costPerSession"`
	AvailableCredits int     `json:"availableCredits"`
}

// EntitlementsResponse HTTP response model
type EntitlementsResponse struct {
	Packs         []PackOptionResponse         `json:"packs"`
	Subscriptions []SubscriptionOptionResponse `json:"subscriptions"`
	OneOff        bool                         `json:"oneOff"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listEntitlements.Response) *EntitlementsResponse {
	packs := make([]PackOptionResponse, 0, len(resp.Packs))
	for _, p := range resp.Packs {
		packs = append(packs, PackOptionResponse{
			PackID:            p.PackID,
			TotalSessions:     p.TotalSessions,
			SessionsRemaining: p.SessionsRemaining,
		})
	}

	subs := make([]SubscriptionOptionResponse, 0, len(resp.Subscriptions))
	for _, s := range resp.Subscriptions {
		subs = append(subs, SubscriptionOptionResponse{
			SubscriptionID:   s.SubscriptionID,
			PaymentFrequency: s.PaymentFrequency,
			CostPerSession:   s.CostPerSession,
			AvailableCredits: s.AvailableCredits,
		})
	}

	return &EntitlementsResponse{
		Packs:         packs,
		Subscriptions: subs,
		OneOff:        resp.OneOff,
	}
}
