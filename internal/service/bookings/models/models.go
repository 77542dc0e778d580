package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID int64   `json:"userId"`
	Reason *string `json:"reason,omitempty"`
}

// GetStudentBookingsRequest запрос на получение бронирований студента
type GetStudentBookingsRequest struct {
	StudentID int64   `json:"studentId"`
	Status    *string `json:"status,omitempty"`
}

// GetTutorBookingsRequest запрос на получение бронирований тьютора
type GetTutorBookingsRequest struct {
	UserID          int64      `json:"userId"`
	TutorID         int64      `json:"tutorId"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTutorBookingsRequest) ToDomainFilter() (domain.TutorBookingsFilter, error) {
	filter := domain.TutorBookingsFilter{
		TutorID:         r.TutorID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	StudentID       int64   `json:"studentId"`
	TutorID         int64   `json:"tutorId"`
	ScheduledDate   string  `json:"scheduledDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`     // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	SessionType     string  `json:"sessionType"`
	Subject         string  `json:"subject"`
	Status          string  `json:"status"`
	Currency        string  `json:"currency"`
	BasePrice       float64 `json:"basePrice"`
	PlatformFee     float64 `json:"platformFee"`
	TotalPrice      float64 `json:"totalPrice"`

	MeetingLink *string `json:"meetingLink,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		StudentID:          b.StudentID,
		TutorID:            b.TutorID,
		ScheduledDate:      b.ScheduledDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		SessionType:        string(b.SessionType),
		Subject:            b.Subject,
		Status:             string(b.Status),
		Currency:           b.Currency,
		BasePrice:          b.BasePrice,
		PlatformFee:        b.PlatformFee,
		TotalPrice:         b.TotalPrice,
		MeetingLink:        b.MeetingLink,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPendingPayment,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
