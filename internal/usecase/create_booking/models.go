package create_booking

import (
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// Request модель запроса на создание сессии
type Request struct {
	ClientID      int64                // ID клиента
	TrainerID     int64                // ID тренера
	ServiceTypeID int64                // ID типа услуги
	StartAt       time.Time            // Момент начала сессии
	Method        domain.BookingMethod // Источник оплаты: pack / subscription / one_off
	SourceID      *int64               // ID пакета или абонемента (для pack/subscription)
	Notes         *string              // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной сессией
type Response struct {
	SessionID int64     // ID созданной сессии
	Status    string    // Итоговый статус: scheduled или pending_approval
	StartAt   time.Time // Момент начала
	EndAt     time.Time // Момент окончания
	Message   string    // Человекочитаемое подтверждение
}
