package schedule

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда настройки доступности
	// тьютора не найдены (используются значения по умолчанию)
	ErrAvailabilityNotFound = errors.New("schedule.repository: availability not found")

	// ErrBlockedDateNotFound возвращается, когда блокировка даты не найдена
	ErrBlockedDateNotFound = errors.New("schedule.repository: blocked date not found")

	// ErrDateAlreadyBlocked возвращается при повторной блокировке даты
	ErrDateAlreadyBlocked = errors.New("schedule.repository: date is already blocked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
