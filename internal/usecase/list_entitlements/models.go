package list_entitlements

// Request модель запроса на список доступных источников оплаты
type Request struct {
	ClientID      int64 // ID клиента
	TrainerID     int64 // ID тренера
	ServiceTypeID int64 // ID типа услуги
}

// PackOption доступный пакет
type PackOption struct {
	PackID            int64 // ID пакета
	TotalSessions     int   // Размер пакета
	SessionsRemaining int   // Фактический остаток, пересчитанный по сессиям
}

// SubscriptionOption доступный абонемент
type SubscriptionOption struct {
	SubscriptionID   int64   // ID абонемента
	PaymentFrequency string  // Частота оплаты
	CostPerSession   float64 // Стоимость одной сессии по аллокации
	AvailableCredits int     // Количество доступных кредитов
}

// Response модель ответа со всеми способами оплаты бронирования
type Response struct {
	Packs         []PackOption         // Пакеты с остатком по запрошенному типу услуги
	Subscriptions []SubscriptionOption // Абонементы с аллокацией на тип услуги
	OneOff        bool                 // Разовое бронирование доступно всегда
}
