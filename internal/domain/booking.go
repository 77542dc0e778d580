package domain

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
)

// SessionType represents the type of a tutoring session
type SessionType string

const (
	SessionPrivate SessionType = "private"
	SessionGroup   SessionType = "group"
)

// CancelActor кто инициировал отмену бронирования
type CancelActor string

const (
	CancelledByStudent CancelActor = "student"
	CancelledByTutor   CancelActor = "tutor"
	CancelledBySystem  CancelActor = "system"
)

// Booking represents a tutoring session booking in the system
type Booking struct {
	ID              int64
	StudentID       int64
	TutorID         int64
	ScheduledDate   time.Time
	StartTime       types.TimeString
	DurationMinutes int
	SessionType     SessionType
	Subject         string
	Status          BookingStatus

	// Цены фиксируются в момент бронирования (денормализация от тарифа тьютора)
	Currency    string
	BasePrice   float64
	PlatformFee float64
	TotalPrice  float64

	MeetingLink *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its time slot
// Только активные бронирования учитываются при проверке пересечений
func (b *Booking) IsActive() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPendingPayment
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// TutorBookingsFilter фильтр для получения бронирований тьютора
type TutorBookingsFilter struct {
	TutorID         int64      // Обязательный параметр
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *BookingStatus
	IncludeInactive bool // Включать ли отмененные и завершенные бронирования
}
