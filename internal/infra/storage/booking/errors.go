package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrNotPendingPayment возвращается при попытке подтвердить бронирование,
	// которое не находится в статусе pending_payment
	ErrNotPendingPayment = errors.New("booking.repository: booking is not pending payment")

	// ErrNotActive возвращается при попытке отменить бронирование,
	// которое уже не удерживает слот
	ErrNotActive = errors.New("booking.repository: booking is not active")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
