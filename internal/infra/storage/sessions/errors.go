package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("sessions.repository: session not found")

	// ErrSlotTaken возвращается, когда слот тренера уже занят активной сессией.
	// Срабатывает на частичном уникальном индексе (trainer_id, start_at),
	// который страхует от двойного бронирования на уровне БД.
	ErrSlotTaken = errors.New("sessions.repository: trainer slot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("sessions.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("sessions.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("sessions.repository: failed to scan row")
)
