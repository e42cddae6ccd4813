package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у агента нет настроенного расписания
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBlackoutNotFound возвращается, когда блэкаут-период не найден
	ErrBlackoutNotFound = errors.New("schedule.repository: blackout period not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
