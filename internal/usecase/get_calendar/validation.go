package get_calendar

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TutorID <= 0 {
		return fmt.Errorf("%w: tutorID must be positive", ErrInvalidInput)
	}

	if req.Month < time.January || req.Month > time.December {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	if req.Year < 2000 || req.Year > 2100 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidInput, req.Year)
	}

	if req.SessionType != "" && req.SessionType != domain.SessionPrivate && req.SessionType != domain.SessionGroup {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, req.SessionType)
	}

	return nil
}
