package reserve_booking

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	reserveBooking "github.com/m04kA/SMC-TutoringService/internal/usecase/reserve_booking"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// ReserveBookingRequest HTTP request model
type ReserveBookingRequest struct {
	TutorID       int64   `json:"tutorId"`
	ScheduledDate string  `json:"scheduledDate"` // "2026-03-15"
	StartTime     string  `json:"startTime"`     // "10:00"
	SessionType   string  `json:"sessionType"`   // "private" | "group"
	Subject       string  `json:"subject"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	StudentID       int64   `json:"studentId"`
	TutorID         int64   `json:"tutorId"`
	ScheduledDate   string  `json:"scheduledDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	SessionType     string  `json:"sessionType"`
	Subject         string  `json:"subject"`
	Status          string  `json:"status"`
	Currency        string  `json:"currency"`
	BasePrice       float64 `json:"basePrice"`
	PlatformFee     float64 `json:"platformFee"`
	TotalPrice      float64 `json:"totalPrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveBookingRequest) ToUseCaseRequest(studentID int64) (*reserveBooking.Request, error) {
	scheduledDate, err := time.Parse(domain.DateFormat, r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &reserveBooking.Request{
		StudentID:   studentID,
		TutorID:     r.TutorID,
		Date:        scheduledDate,
		StartTime:   startTime,
		SessionType: domain.SessionType(r.SessionType),
		Subject:     r.Subject,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		StudentID:       resp.StudentID,
		TutorID:         resp.TutorID,
		ScheduledDate:   resp.ScheduledDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		SessionType:     resp.SessionType,
		Subject:         resp.Subject,
		Status:          resp.Status,
		Currency:        resp.Currency,
		BasePrice:       resp.BasePrice,
		PlatformFee:     resp.PlatformFee,
		TotalPrice:      resp.TotalPrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
