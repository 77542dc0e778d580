package reserve_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/schedule"
	tutorClient "github.com/m04kA/SMC-TutoringService/internal/integrations/tutorservice"
)

// UseCase use case для резервирования слота
type UseCase struct {
	bookingRepo         BookingRepository
	scheduleRepo        ScheduleRepository
	tutorClient         TutorServiceClient
	txManager           TransactionManager
	timeProvider        TimeProvider
	platformFeeRate     float64
	defaultSlotDuration int
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	tutorClient TutorServiceClient,
	txManager TransactionManager,
	platformFeeRate float64,
	defaultSlotDuration int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:         bookingRepo,
		scheduleRepo:        scheduleRepo,
		tutorClient:         tutorClient,
		txManager:           txManager,
		timeProvider:        &RealTimeProvider{},
		platformFeeRate:     platformFeeRate,
		defaultSlotDuration: defaultSlotDuration,
		logger:              logger,
	}
}

// Execute выполняет use case резервирования слота
// Проверка пересечений и вставка выполняются в сериализуемой транзакции
// с блокировкой активных бронирований дня (FOR UPDATE) - единственная
// точка взаимного исключения во всей подсистеме бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveBooking: student=%d, tutor=%d, date=%s, time=%s, session_type=%s",
		req.StudentID, req.TutorID, req.Date.Format(domain.DateFormat), req.StartTime, req.SessionType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем дату и время бронирования
	if err := validateBookingTime(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("ReserveBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем профиль тьютора (ставка, валюта)
	tutor, err := uc.tutorClient.GetTutor(ctx, req.TutorID)
	if err != nil {
		if errors.Is(err, tutorClient.ErrTutorNotFound) {
			uc.logger.Warn("ReserveBooking: tutor id=%d not found", req.TutorID)
			return nil, ErrTutorNotFound
		}
		uc.logger.Error("ReserveBooking: failed to get tutor id=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get tutor: %v", ErrInternal, err)
	}

	if !tutor.IsActive {
		uc.logger.Warn("ReserveBooking: tutor id=%d is inactive", req.TutorID)
		return nil, ErrTutorInactive
	}

	hourlyRate := domain.SessionHourlyRate(req.SessionType, tutor.HourlyRate, tutor.GroupHourlyRate)

	// Переменная для хранения результата
	var result *domain.Booking

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем недельное расписание тьютора
		schedule, err := uc.scheduleRepo.GetWeeklySchedule(txCtx, req.TutorID)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to get weekly schedule: %v", err)
			return fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
		}

		// 5.2. Получаем длительность слота тьютора
		slotDuration, err := uc.scheduleRepo.GetSlotDuration(txCtx, req.TutorID)
		if err != nil {
			if !errors.Is(err, scheduleRepo.ErrAvailabilityNotFound) {
				uc.logger.Error("ReserveBooking: failed to get slot duration: %v", err)
				return fmt.Errorf("%w: failed to get slot duration: %v", ErrInternal, err)
			}
			slotDuration = uc.defaultSlotDuration
		}

		// 5.3. Проверяем, что дата не заблокирована
		dayStart := req.Date
		dayEnd := dayStart.AddDate(0, 0, 1)
		blocked, err := uc.scheduleRepo.GetBlockedDates(txCtx, req.TutorID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to get blocked dates: %v", err)
			return fmt.Errorf("%w: failed to get blocked dates: %v", ErrInternal, err)
		}
		if len(blocked) > 0 {
			uc.logger.Warn("ReserveBooking: date %s is blocked by tutor id=%d",
				req.Date.Format(domain.DateFormat), req.TutorID)
			return ErrDateBlocked
		}

		// 5.4. Повторно выводим сетку слотов и проверяем запрошенное время
		valid, err := isValidSlotStart(schedule.RangesFor(req.Date), slotDuration, req.StartTime)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to validate slot start: %v", err)
			return fmt.Errorf("%w: failed to validate slot start: %v", ErrInternal, err)
		}
		if !valid {
			uc.logger.Warn("ReserveBooking: time %s does not match slot grid for tutor id=%d",
				req.StartTime, req.TutorID)
			return ErrInvalidSlot
		}

		// 5.5. Получаем активные бронирования на эту дату с блокировкой (FOR UPDATE)
		filter := domain.TutorBookingsFilter{
			TutorID:         req.TutorID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetByTutorWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 5.6. Проверяем пересечение с активными бронированиями
		overlaps, err := hasOverlappingBooking(req.StartTime, slotDuration, bookings)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to check overlaps: %v", err)
			return fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
		}
		if overlaps {
			uc.logger.Warn("ReserveBooking: slot %s %s is already taken for tutor id=%d",
				req.Date.Format(domain.DateFormat), req.StartTime, req.TutorID)
			return ErrSlotConflict
		}

		// 5.7. Фиксируем цену в момент бронирования
		price := domain.CalculatePrice(hourlyRate, slotDuration, uc.platformFeeRate)

		currency := tutor.Currency
		if currency == "" {
			currency = domain.DefaultCurrency
		}

		booking := &domain.Booking{
			StudentID:       req.StudentID,
			TutorID:         req.TutorID,
			ScheduledDate:   req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: slotDuration,
			SessionType:     req.SessionType,
			Subject:         req.Subject,
			Status:          domain.StatusPendingPayment,
			Currency:        currency,
			BasePrice:       price.BasePrice,
			PlatformFee:     price.PlatformFee,
			TotalPrice:      price.TotalPrice,
			Notes:           req.Notes,
		}

		// 5.8. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("ReserveBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Две одновременные сериализуемые транзакции не видят вставки друг
		// друга: проигравшая откатывается на коммите с ошибкой сериализации.
		// Для клиента это тот же занятый слот - календарь нужно перечитать
		if isSerializationFailure(err) {
			uc.logger.Warn("ReserveBooking: serialization failure for tutor id=%d, date=%s, time=%s: %v",
				req.TutorID, req.Date.Format(domain.DateFormat), req.StartTime, err)
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	uc.logger.Info("ReserveBooking: successfully reserved booking id=%d, total=%.2f %s",
		result.ID, result.TotalPrice, result.Currency)

	return &Response{
		ID:              result.ID,
		StudentID:       result.StudentID,
		TutorID:         result.TutorID,
		ScheduledDate:   result.ScheduledDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		SessionType:     string(result.SessionType),
		Subject:         result.Subject,
		Status:          string(result.Status),
		Currency:        result.Currency,
		BasePrice:       result.BasePrice,
		PlatformFee:     result.PlatformFee,
		TotalPrice:      result.TotalPrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// pqSerializationFailure код SQLSTATE ошибки сериализации PostgreSQL
const pqSerializationFailure = "40001"

// isSerializationFailure распознает откат сериализуемой транзакции,
// проигравшей конкурентному бронированию
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqSerializationFailure
}
