package domain

// Session timing constants
const (
	// SessionDurationMinutes фиксированная длительность сессии.
	// Продукт не поддерживает сессии другой длины.
	SessionDurationMinutes = 60

	// LateCancellationWindowHours отмена за это время до начала сессии
	// или позже считается поздней
	LateCancellationWindowHours = 24
)

// Billing constants
const (
	// BillingHorizonDays периоды не создаются дальше этого горизонта
	BillingHorizonDays = 60
)

// Availability constants
const (
	// MaxAvailabilityWindowDays максимальное окно запроса доступности
	MaxAvailabilityWindowDays = 31
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// PenaltyCancellationReason причина отмены, при которой сессия продолжает
// расходовать пакет
const PenaltyCancellationReason = "penalty"

// InactiveSessionStatuses статусы, при которых сессия не занимает слот.
// Используется при подсчете пересечений и свободных интервалов.
var InactiveSessionStatuses = []SessionStatus{
	StatusCancelledLate,
	StatusCancelledEarly,
	StatusNoShow,
}

// PackConsumingStatuses статусы, при которых сессия расходует пакет
// безусловно. Отмененные сессии расходуют пакет только при отмене
// со штрафом (см. PenaltyCancellationReason).
var PackConsumingStatuses = []SessionStatus{
	StatusScheduled,
	StatusCompleted,
	StatusNoShow,
}
