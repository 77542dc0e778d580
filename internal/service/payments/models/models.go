package models

import (
	bookingModels "github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
)

// Request модели

// CreateOrderRequest запрос на создание платежного заказа
type CreateOrderRequest struct {
	UserID    int64 `json:"userId"`
	BookingID int64 `json:"bookingId"`
}

// VerifyPaymentRequest подтверждение оплаты от checkout
type VerifyPaymentRequest struct {
	UserID    int64  `json:"userId"`
	BookingID int64  `json:"bookingId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// DismissPaymentRequest отказ от оплаты (пользователь закрыл checkout)
type DismissPaymentRequest struct {
	UserID    int64 `json:"userId"`
	BookingID int64 `json:"bookingId"`
}

// Response модели

// CreateOrderResponse данные для открытия checkout на клиенте
type CreateOrderResponse struct {
	BookingID int64  `json:"bookingId"`
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"` // В минимальных единицах валюты
	Currency  string `json:"currency"`
	KeyID     string `json:"keyId"`
}

// VerifyPaymentResponse результат верификации оплаты
type VerifyPaymentResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
}
