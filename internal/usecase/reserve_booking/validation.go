package reserve_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.TutorID <= 0 {
		return fmt.Errorf("%w: tutorID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if req.SessionType != domain.SessionPrivate && req.SessionType != domain.SessionGroup {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, req.SessionType)
	}

	if req.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Subject) > domain.MaxSubjectLength {
		return fmt.Errorf("%w: subject must be at most %d characters", ErrInvalidInput, domain.MaxSubjectLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateBookingTime проверяет, что дата и время бронирования не в прошлом
func validateBookingTime(date time.Time, startTime types.TimeString, now time.Time) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}

	// Для сегодняшнего дня слот должен начинаться в будущем
	if isSameDay(date, now) {
		currentTime := types.NewTimeString(now)
		if !currentTime.IsBefore(startTime) {
			return fmt.Errorf("%w: slot start time has already passed", ErrInvalidDate)
		}
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
