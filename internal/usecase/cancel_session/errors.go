package cancel_session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("cancel_session: session not found")

	// ErrForbidden возвращается, когда сессия принадлежит другому клиенту и тренеру
	ErrForbidden = errors.New("cancel_session: caller does not own this session")

	// ErrNotCancellable возвращается, когда сессия уже завершена или отменена
	ErrNotCancellable = errors.New("cancel_session: session can no longer be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_session: internal error")
)
