package staffconfig

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация ещё не создана
	ErrConfigNotFound = errors.New("staffconfig.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staffconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staffconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staffconfig.repository: failed to scan row")
)
