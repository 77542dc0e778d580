package remove_blocked_date

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/service/schedule/models"
)

type ScheduleService interface {
	RemoveBlockedDate(ctx context.Context, req *models.RemoveBlockedDateRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
