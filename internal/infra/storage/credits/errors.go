package credits

import "errors"

var (
	// ErrCreditAlreadyMinted возвращается, когда кредит за эту сессию
	// уже существует. Повторная отмена не должна чеканить второй кредит.
	ErrCreditAlreadyMinted = errors.New("credits.repository: credit already minted for session")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("credits.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("credits.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("credits.repository: failed to scan row")
)
