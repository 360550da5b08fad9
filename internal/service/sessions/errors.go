package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("sessions.service: session not found")

	// ErrAccessDenied возвращается, когда вызывающий не имеет доступа к сессии
	ErrAccessDenied = errors.New("sessions.service: access denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("sessions.service: invalid status transition")

	// ErrSlotConflict возвращается, когда новое время пересекается с другими сессиями
	ErrSlotConflict = errors.New("sessions.service: new time conflicts with an existing session")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sessions.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions.service: internal error")
)
