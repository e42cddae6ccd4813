package calendarconn

import "errors"

var (
	// ErrConnectionNotFound возвращается, когда у агента нет записи о подключении календаря
	ErrConnectionNotFound = errors.New("calendarconn.repository: connection not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendarconn.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendarconn.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendarconn.repository: failed to scan row")
)
