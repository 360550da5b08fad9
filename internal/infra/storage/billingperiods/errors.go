package billingperiods

import "errors"

var (
	// ErrNoPeriods возвращается, когда у подписки еще нет ни одного периода
	ErrNoPeriods = errors.New("billingperiods.repository: subscription has no billing periods")

	// ErrDuplicatePeriod возвращается при попытке создать период
	// с уже существующей датой начала для этой подписки
	ErrDuplicatePeriod = errors.New("billingperiods.repository: period with this start already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("billingperiods.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("billingperiods.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("billingperiods.repository: failed to scan row")
)
