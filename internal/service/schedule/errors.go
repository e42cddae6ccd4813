package schedule

import "errors"

var (
	// ErrBlackoutNotFound возвращается, когда блэкаут-период не найден
	ErrBlackoutNotFound = errors.New("blackout period not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
