package domain

import "time"

// PaymentStatus represents the status of a payment attempt
type PaymentStatus string

const (
	PaymentCreated              PaymentStatus = "created"
	PaymentAwaitingConfirmation PaymentStatus = "awaiting_confirmation"
	PaymentVerifying            PaymentStatus = "verifying"
	PaymentSucceeded            PaymentStatus = "succeeded"
	PaymentFailed               PaymentStatus = "failed"
	PaymentAbandoned            PaymentStatus = "abandoned"
)

// PaymentAttempt попытка оплаты бронирования
// Пока бронирование в pending_payment, с ним связана ровно одна попытка
type PaymentAttempt struct {
	ID        int64
	BookingID int64

	// Идентификаторы внешнего платежного шлюза
	ExternalOrderID   *string
	ExternalPaymentID *string
	Signature         *string

	Status PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the attempt reached a final state
func (p *PaymentAttempt) IsTerminal() bool {
	return p.Status == PaymentSucceeded || p.Status == PaymentFailed || p.Status == PaymentAbandoned
}

// IsSucceeded returns true if the payment went through and was verified
func (p *PaymentAttempt) IsSucceeded() bool {
	return p.Status == PaymentSucceeded
}
