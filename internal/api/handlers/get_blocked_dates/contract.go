package get_blocked_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetBlockedDates(ctx context.Context, tutorID int64, from, to time.Time) (*models.BlockedDateListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
