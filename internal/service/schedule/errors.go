package schedule

import "errors"

var (
	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTimeRange возвращается при некорректном интервале
	// (неверный формат времени или конец раньше начала)
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrOverlappingRanges возвращается, когда интервалы одного дня пересекаются
	ErrOverlappingRanges = errors.New("time ranges overlap")

	// ErrDateAlreadyBlocked возвращается при повторной блокировке даты
	ErrDateAlreadyBlocked = errors.New("date is already blocked")

	// ErrBlockedDateNotFound возвращается, когда блокировка не найдена
	ErrBlockedDateNotFound = errors.New("blocked date not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
