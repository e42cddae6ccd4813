package googlecalendar

import "errors"

var (
	// ErrCalendarSync возвращается при любой ошибке взаимодействия с Google Calendar.
	// Всегда нефатальна для состояния сервиса: вызывающие слои понижают её
	// до предупреждения в ответе.
	ErrCalendarSync = errors.New("googlecalendar client: calendar sync failed")

	// ErrNotConnected возвращается, когда у агента нет активного подключения календаря
	ErrNotConnected = errors.New("googlecalendar client: agent calendar not connected")

	// ErrInvalidResponse возвращается при некорректном ответе Google Calendar API
	ErrInvalidResponse = errors.New("googlecalendar client: invalid response")
)
