package resolve_availability

import (
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// Request модель запроса на расчет свободных интервалов тренера
type Request struct {
	TrainerID   int64     // ID тренера
	WindowStart time.Time // Начало окна (включительно)
	WindowEnd   time.Time // Конец окна (исключительно)
}

// Response модель ответа со свободными интервалами
type Response struct {
	TrainerID int64              // ID тренера
	Intervals []domain.TimeRange // Свободные интервалы, отсортированные по началу
}
