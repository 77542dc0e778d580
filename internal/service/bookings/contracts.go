package bookings

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByStudentID(ctx context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
	ConfirmPending(ctx context.Context, id int64, meetingLink string) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// PaymentRepository интерфейс репозитория попыток оплаты
type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentAttempt, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// NotificationClient интерфейс клиента сервиса уведомлений
// Доставка fire-and-forget: методы не возвращают ошибок
type NotificationClient interface {
	BookingConfirmed(event domain.BookingConfirmedEvent)
	BookingCancelled(event domain.BookingCancelledEvent)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
