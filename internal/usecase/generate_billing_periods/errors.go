package generate_billing_periods

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_billing_periods: internal error")
)
