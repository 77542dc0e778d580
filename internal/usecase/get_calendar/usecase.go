package get_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// UseCase use case для получения календаря доступности тьютора на месяц
type UseCase struct {
	bookingRepo         BookingRepository
	scheduleRepo        ScheduleRepository
	timeProvider        TimeProvider
	defaultSlotDuration int
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	defaultSlotDuration int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:         bookingRepo,
		scheduleRepo:        scheduleRepo,
		timeProvider:        &RealTimeProvider{},
		defaultSlotDuration: defaultSlotDuration,
		logger:              logger,
	}
}

// Execute выполняет use case получения календаря
// Календарь вычисляется на чтении: расписание + блокировки + активные
// бронирования. Одинаковые входные данные всегда дают одинаковый
// отсортированный список слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: user=%d, tutor=%d, period=%d-%02d, session_type=%s",
		req.UserID, req.TutorID, req.Year, req.Month, req.SessionType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем недельное расписание тьютора
	schedule, err := uc.scheduleRepo.GetWeeklySchedule(ctx, req.TutorID)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get weekly schedule for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
	}

	// 4. Получаем длительность слота тьютора
	slotDuration, err := uc.scheduleRepo.GetSlotDuration(ctx, req.TutorID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrAvailabilityNotFound) {
			uc.logger.Error("GetCalendar: failed to get slot duration for tutor=%d: %v", req.TutorID, err)
			return nil, fmt.Errorf("%w: failed to get slot duration: %v", ErrInternal, err)
		}
		slotDuration = uc.defaultSlotDuration
		uc.logger.Info("GetCalendar: using default slot duration %d min for tutor=%d",
			slotDuration, req.TutorID)
	}

	// 5. Границы месяца: [monthStart, nextMonthStart)
	monthStart := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	// 6. Получаем блокировки дат за месяц
	blockedDates, err := uc.scheduleRepo.GetBlockedDates(ctx, req.TutorID, monthStart, nextMonthStart)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get blocked dates for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get blocked dates: %v", ErrInternal, err)
	}

	blockedByDate := make(map[string]*domain.BlockedDate, len(blockedDates))
	for _, bd := range blockedDates {
		blockedByDate[bd.Date.Format(domain.DateFormat)] = bd
	}

	// 7. Получаем активные бронирования тьютора за месяц
	filter := domain.TutorBookingsFilter{
		TutorID:         req.TutorID,
		StartDate:       &monthStart,
		EndDate:         &nextMonthStart,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByTutorWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get bookings for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	bookingsByDate := make(map[string][]*domain.Booking, len(bookings))
	for _, b := range bookings {
		key := b.ScheduledDate.Format(domain.DateFormat)
		bookingsByDate[key] = append(bookingsByDate[key], b)
	}

	// 8. Строим календарь по дням месяца
	days := make([]domain.CalendarDay, 0, 31)
	for date := monthStart; date.Before(nextMonthStart); date = date.AddDate(0, 0, 1) {
		day, err := uc.buildDay(date, now, schedule, slotDuration, blockedByDate, bookingsByDate)
		if err != nil {
			uc.logger.Error("GetCalendar: failed to build day %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to build calendar day: %v", ErrInternal, err)
		}
		days = append(days, day)
	}

	uc.logger.Info("GetCalendar: built %d days for tutor=%d, period=%d-%02d",
		len(days), req.TutorID, req.Year, req.Month)

	return &Response{
		TutorID:             req.TutorID,
		Year:                req.Year,
		Month:               req.Month,
		SlotDurationMinutes: slotDuration,
		Days:                days,
	}, nil
}

// buildDay вычисляет состояние одного дня календаря
func (uc *UseCase) buildDay(
	date time.Time,
	now time.Time,
	schedule domain.WeeklySchedule,
	slotDuration int,
	blockedByDate map[string]*domain.BlockedDate,
	bookingsByDate map[string][]*domain.Booking,
) (domain.CalendarDay, error) {
	key := date.Format(domain.DateFormat)

	// Заблокированная дата перекрывает недельное расписание целиком
	if blocked, ok := blockedByDate[key]; ok {
		return domain.CalendarDay{
			Date:        date,
			IsAvailable: false,
			IsBlocked:   true,
			BlockReason: blocked.Reason,
			TimeSlots:   []types.TimeString{},
		}, nil
	}

	// Прошедшие даты всегда недоступны для бронирования
	if isDateInPast(date, now) {
		return domain.CalendarDay{
			Date:        date,
			IsAvailable: false,
			TimeSlots:   []types.TimeString{},
		}, nil
	}

	slots, err := generateDaySlots(schedule.RangesFor(date), slotDuration)
	if err != nil {
		return domain.CalendarDay{}, err
	}

	slots = filterBookedSlots(slots, slotDuration, bookingsByDate[key])

	// Сегодняшние слоты, которые уже начались, недоступны
	if isSameDay(date, now) {
		slots = filterPastSlots(slots, now)
	}

	return domain.CalendarDay{
		Date:        date,
		IsAvailable: len(slots) > 0,
		SlotCount:   len(slots),
		TimeSlots:   slots,
	}, nil
}
