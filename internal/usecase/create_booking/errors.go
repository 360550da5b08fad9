package create_booking

import "errors"

var (
	// ErrSlotConflict возвращается, когда слот пересекается с существующей сессией тренера
	ErrSlotConflict = errors.New("create_booking: slot conflicts with an existing session")

	// ErrPackNotFound возвращается, когда пакет не найден
	ErrPackNotFound = errors.New("create_booking: pack not found")

	// ErrPackNotUsable возвращается, когда пакет неактивен или не подходит по типу услуги
	ErrPackNotUsable = errors.New("create_booking: pack cannot be used for this booking")

	// ErrPackExhausted возвращается, когда в пакете не осталось сессий
	ErrPackExhausted = errors.New("create_booking: no sessions remaining in pack")

	// ErrSubscriptionNotFound возвращается, когда абонемент не найден
	ErrSubscriptionNotFound = errors.New("create_booking: subscription not found")

	// ErrSubscriptionNotUsable возвращается, когда абонемент неактивен или не покрывает тип услуги
	ErrSubscriptionNotUsable = errors.New("create_booking: subscription cannot be used for this booking")

	// ErrSessionInPast возвращается при попытке забронировать сессию в прошлом
	ErrSessionInPast = errors.New("create_booking: session start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
