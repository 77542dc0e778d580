package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-TutoringService/internal/service/schedule/models"
)

// Service сервис для управления расписанием тьютора
// Тьютор редактирует только свое расписание; замена недельного
// расписания выполняется в транзакции, чтобы читатели календаря
// не увидели промежуточное состояние
type Service struct {
	scheduleRepo        ScheduleRepository
	txManager           TransactionManager
	defaultSlotDuration int
	logger              Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	defaultSlotDuration int,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:        scheduleRepo,
		txManager:           txManager,
		defaultSlotDuration: defaultSlotDuration,
		logger:              logger,
	}
}

// GetSchedule получает недельное расписание и длительность слота тьютора
func (s *Service) GetSchedule(ctx context.Context, tutorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for tutor=%d", tutorID)

	weekly, err := s.scheduleRepo.GetWeeklySchedule(ctx, tutorID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for tutor=%d: %v", tutorID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	slotDuration, err := s.scheduleRepo.GetSlotDuration(ctx, tutorID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrAvailabilityNotFound) {
			s.logger.Error("GetSchedule: failed to get slot duration for tutor=%d: %v", tutorID, err)
			return nil, fmt.Errorf("%w: GetSchedule - failed to get slot duration: %v", ErrInternal, err)
		}
		slotDuration = s.defaultSlotDuration
	}

	return &models.ScheduleResponse{
		TutorID:             tutorID,
		SlotDurationMinutes: slotDuration,
		Schedule:            models.FromDomainSchedule(weekly),
	}, nil
}

// UpdateSchedule полностью заменяет недельное расписание тьютора
// Интервалы каждого дня проверяются на корректность и отсутствие
// пересечений до записи
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for tutor=%d by user=%d", req.TutorID, req.UserID)

	if req.UserID != req.TutorID {
		s.logger.Warn("UpdateSchedule: access denied for user=%d to tutor=%d schedule", req.UserID, req.TutorID)
		return nil, ErrAccessDenied
	}

	weekly, err := req.Schedule.ToDomainSchedule()
	if err != nil {
		s.logger.Warn("UpdateSchedule: invalid schedule for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}

	if err := validateWeeklySchedule(weekly); err != nil {
		s.logger.Warn("UpdateSchedule: schedule validation failed for tutor=%d: %v", req.TutorID, err)
		return nil, err
	}

	slotDuration := 0
	if req.SlotDurationMinutes != nil {
		slotDuration = *req.SlotDurationMinutes
		if slotDuration < domain.MinSlotDurationMinutes || slotDuration > domain.MaxSlotDurationMinutes {
			s.logger.Warn("UpdateSchedule: invalid slot duration %d for tutor=%d", slotDuration, req.TutorID)
			return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
				ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.ReplaceWeeklySchedule(txCtx, req.TutorID, weekly); err != nil {
			return fmt.Errorf("%w: UpdateSchedule - failed to replace schedule: %v", ErrInternal, err)
		}

		if slotDuration > 0 {
			if err := s.scheduleRepo.UpsertSlotDuration(txCtx, req.TutorID, slotDuration); err != nil {
				return fmt.Errorf("%w: UpdateSchedule - failed to update slot duration: %v", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		s.logger.Error("UpdateSchedule: transaction failed for tutor=%d: %v", req.TutorID, err)
		return nil, err
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule for tutor=%d", req.TutorID)
	return s.GetSchedule(ctx, req.TutorID)
}

// GetBlockedDates получает блокировки тьютора в периоде [from, to)
func (s *Service) GetBlockedDates(ctx context.Context, tutorID int64, from, to time.Time) (*models.BlockedDateListResponse, error) {
	s.logger.Info("GetBlockedDates: fetching blocked dates for tutor=%d, period=%s to %s",
		tutorID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	blocked, err := s.scheduleRepo.GetBlockedDates(ctx, tutorID, from, to)
	if err != nil {
		s.logger.Error("GetBlockedDates: repository error for tutor=%d: %v", tutorID, err)
		return nil, fmt.Errorf("%w: GetBlockedDates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedDateList(blocked), nil
}

// AddBlockedDate блокирует дату тьютора
// Блокировка перекрывает недельное расписание: слотов в этот день нет
func (s *Service) AddBlockedDate(ctx context.Context, req *models.AddBlockedDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("AddBlockedDate: blocking date %s for tutor=%d by user=%d",
		req.Date.Format(domain.DateFormat), req.TutorID, req.UserID)

	if req.UserID != req.TutorID {
		s.logger.Warn("AddBlockedDate: access denied for user=%d to tutor=%d", req.UserID, req.TutorID)
		return nil, ErrAccessDenied
	}

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	blocked, err := s.scheduleRepo.AddBlockedDate(ctx, &domain.BlockedDate{
		TutorID: req.TutorID,
		Date:    req.Date,
		Reason:  req.Reason,
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDateAlreadyBlocked) {
			s.logger.Warn("AddBlockedDate: date %s is already blocked for tutor=%d",
				req.Date.Format(domain.DateFormat), req.TutorID)
			return nil, ErrDateAlreadyBlocked
		}
		s.logger.Error("AddBlockedDate: repository error for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: AddBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddBlockedDate: successfully blocked date %s for tutor=%d",
		req.Date.Format(domain.DateFormat), req.TutorID)
	return models.FromDomainBlockedDate(blocked), nil
}

// RemoveBlockedDate снимает блокировку даты
func (s *Service) RemoveBlockedDate(ctx context.Context, req *models.RemoveBlockedDateRequest) error {
	s.logger.Info("RemoveBlockedDate: unblocking date %s for tutor=%d by user=%d",
		req.Date.Format(domain.DateFormat), req.TutorID, req.UserID)

	if req.UserID != req.TutorID {
		s.logger.Warn("RemoveBlockedDate: access denied for user=%d to tutor=%d", req.UserID, req.TutorID)
		return ErrAccessDenied
	}

	err := s.scheduleRepo.RemoveBlockedDate(ctx, req.TutorID, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedDateNotFound) {
			s.logger.Warn("RemoveBlockedDate: blocked date %s not found for tutor=%d",
				req.Date.Format(domain.DateFormat), req.TutorID)
			return ErrBlockedDateNotFound
		}
		s.logger.Error("RemoveBlockedDate: repository error for tutor=%d: %v", req.TutorID, err)
		return fmt.Errorf("%w: RemoveBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveBlockedDate: successfully unblocked date %s for tutor=%d",
		req.Date.Format(domain.DateFormat), req.TutorID)
	return nil
}

// validateWeeklySchedule проверяет интервалы каждого дня:
// корректная длина и отсутствие пересечений
// Интервалы приходят в произвольном порядке, поэтому проверка попарная
func validateWeeklySchedule(schedule domain.WeeklySchedule) error {
	for day, ranges := range schedule {
		for i, rng := range ranges {
			if !rng.IsValid() {
				return fmt.Errorf("%w: %s range %s-%s", ErrInvalidTimeRange, day, rng.StartTime, rng.EndTime)
			}

			for j := i + 1; j < len(ranges); j++ {
				other := ranges[j]
				if rng.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(rng.EndTime) {
					return fmt.Errorf("%w: %s ranges %s-%s and %s-%s", ErrOverlappingRanges,
						day, rng.StartTime, rng.EndTime, other.StartTime, other.EndTime)
				}
			}
		}
	}

	return nil
}
