package payments

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAttemptNotFound возвращается, когда попытка оплаты не найдена
	ErrAttemptNotFound = errors.New("payment attempt not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidState возвращается, когда операция неприменима к текущему
	// статусу бронирования или попытки оплаты
	ErrInvalidState = errors.New("operation is not allowed in current state")

	// ErrAmountTooSmall возвращается, когда сумма бронирования меньше
	// минимально допустимой шлюзом
	ErrAmountTooSmall = errors.New("order amount is below the gateway minimum")

	// ErrGatewayFailed возвращается, когда шлюз не смог создать заказ
	// Бронирование при этом отменено, слот освобожден
	ErrGatewayFailed = errors.New("payment order could not be created, slot released")

	// ErrOrderMismatch возвращается, когда подтверждение ссылается
	// не на тот заказ, который был создан для бронирования
	ErrOrderMismatch = errors.New("confirmation references an unknown order")

	// ErrVerificationFailed возвращается при несовпадении подписи
	// Отличается от обычного сбоя: возможна попытка подделки подтверждения
	ErrVerificationFailed = errors.New("payment could not be verified")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
