package notifyservice

import "errors"

var (
	// ErrDeliveryFailed возвращается, когда сервис уведомлений
	// не принял событие
	ErrDeliveryFailed = errors.New("notifyservice client: delivery failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")
)
