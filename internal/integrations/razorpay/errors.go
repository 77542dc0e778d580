package razorpay

import "errors"

var (
	// ErrGatewayUnavailable возвращается, когда шлюз недоступен
	// или вернул неожиданный ответ
	ErrGatewayUnavailable = errors.New("razorpay client: gateway unavailable")

	// ErrOrderRejected возвращается, когда шлюз отклонил создание заказа
	// (некорректная сумма, валюта и т.п.)
	ErrOrderRejected = errors.New("razorpay client: order rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("razorpay client: internal error")
)
