package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeeklySchedule(ctx context.Context, tutorID int64) (domain.WeeklySchedule, error)
	ReplaceWeeklySchedule(ctx context.Context, tutorID int64, schedule domain.WeeklySchedule) error
	GetBlockedDates(ctx context.Context, tutorID int64, from, to time.Time) ([]*domain.BlockedDate, error)
	AddBlockedDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error)
	RemoveBlockedDate(ctx context.Context, tutorID int64, date time.Time) error
	GetSlotDuration(ctx context.Context, tutorID int64) (int, error)
	UpsertSlotDuration(ctx context.Context, tutorID int64, minutes int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
