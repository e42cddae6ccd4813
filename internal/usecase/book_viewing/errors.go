package book_viewing

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotNoLongerAvailable возвращается, когда запрошенный слот
	// больше не предлагается: занят, вне рабочих часов или нарушает
	// минимальное время до начала
	ErrSlotNoLongerAvailable = errors.New("book_viewing: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_viewing: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_viewing: internal error")
)

// SlotConflictError ошибка конфликта слота с альтернативными вариантами
// на тот же день. errors.Is(err, ErrSlotNoLongerAvailable) возвращает true
type SlotConflictError struct {
	AlternativeSlots []Slot
}

// Error реализует интерфейс error
func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%v (%d alternative slots)", ErrSlotNoLongerAvailable, len(e.AlternativeSlots))
}

// Unwrap позволяет сопоставлять ошибку с ErrSlotNoLongerAvailable
func (e *SlotConflictError) Unwrap() error {
	return ErrSlotNoLongerAvailable
}
