package resolve_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resolve_availability: invalid input data")

	// ErrWindowTooLarge возвращается, когда запрошенное окно превышает
	// максимально допустимое
	ErrWindowTooLarge = errors.New("resolve_availability: window is too large")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resolve_availability: internal error")
)
