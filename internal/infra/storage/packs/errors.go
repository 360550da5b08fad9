package packs

import "errors"

var (
	// ErrPackNotFound возвращается, когда пакет не найден
	ErrPackNotFound = errors.New("packs.repository: pack not found")

	// ErrNoSessionsRemaining возвращается, когда в пакете не осталось сессий
	// или пакет больше не активен. Условный UPDATE не затронул ни одной строки.
	ErrNoSessionsRemaining = errors.New("packs.repository: no sessions remaining")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("packs.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("packs.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("packs.repository: failed to scan row")
)
