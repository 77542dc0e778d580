package payment

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытка оплаты не найдена
	ErrAttemptNotFound = errors.New("payment.repository: payment attempt not found")

	// ErrAttemptExists возвращается при попытке создать вторую попытку
	// оплаты для одного бронирования
	ErrAttemptExists = errors.New("payment.repository: payment attempt already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
