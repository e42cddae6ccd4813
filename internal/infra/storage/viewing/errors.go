package viewing

import "errors"

var (
	// ErrViewingNotFound возвращается, когда просмотр не найден
	ErrViewingNotFound = errors.New("viewing.repository: viewing not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("viewing.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("viewing.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("viewing.repository: failed to scan row")
)
