package payments

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/integrations/razorpay"
	bookingModels "github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// BookingService интерфейс сервиса бронирований
// Сага меняет статусы бронирований только через него: подтверждение
// после верификации и компенсация при сбое
type BookingService interface {
	Confirm(ctx context.Context, bookingID int64, meetingLink string) (*bookingModels.BookingResponse, error)
	CancelBySystem(ctx context.Context, bookingID int64, reason string) error
}

// PaymentRepository интерфейс репозитория попыток оплаты
type PaymentRepository interface {
	Create(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentAttempt, error)
	SetOrder(ctx context.Context, id int64, externalOrderID string) error
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	MarkSucceeded(ctx context.Context, id int64, externalPaymentID, signature string) error
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
