package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
// Владеет переходами статусов: подтверждение после оплаты, отмена
// пользователем и системой. Каждый переход выполняется условным
// UPDATE в репозитории - безопасно при конкурентных вызовах
type Service struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	notifyClient NotificationClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	notifyClient NotificationClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		notifyClient: notifyClient,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только бронирование, в котором он участвует
// как студент или как тьютор
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.StudentID != userID && booking.TutorID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetStudentBookings получает историю бронирований студента
// Опционально фильтрует по статусу
func (s *Service) GetStudentBookings(ctx context.Context, req *models.GetStudentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStudentBookings: fetching bookings for student=%d, status=%v", req.StudentID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetStudentBookings: invalid status=%s for student=%d", *req.Status, req.StudentID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByStudentID(ctx, req.StudentID, domainStatus)
	if err != nil {
		s.logger.Error("GetStudentBookings: repository error for student=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: GetStudentBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStudentBookings: successfully fetched %d bookings for student=%d", len(bookings), req.StudentID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTutorBookings получает бронирования тьютора с гибкой фильтрацией
// Доступно только самому тьютору
func (s *Service) GetTutorBookings(ctx context.Context, req *models.GetTutorBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTutorBookings: fetching bookings for tutor=%d, user=%d", req.TutorID, req.UserID)

	if req.UserID != req.TutorID {
		s.logger.Warn("GetTutorBookings: access denied for user=%d to tutor=%d bookings", req.UserID, req.TutorID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTutorBookings: invalid filter for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTutorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTutorBookings: repository error for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: GetTutorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTutorBookings: successfully fetched %d bookings for tutor=%d", len(bookings), req.TutorID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование по запросу пользователя
// Студент и тьютор могут отменять только свои бронирования.
// Повторная отмена уже отмененного бронирования - no-op: слот уже
// освобожден, событие не дублируется
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason is too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	var actor domain.CancelActor
	switch req.UserID {
	case booking.StudentID:
		actor = domain.CancelledByStudent
	case booking.TutorID:
		actor = domain.CancelledByTutor
	default:
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	if booking.IsCancelled() {
		s.logger.Info("Cancel: booking id=%d is already cancelled, no-op", bookingID)
		return models.FromDomainBooking(booking), nil
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	reason := cancelReason(actor, req.Reason)
	return s.cancel(ctx, booking, reason)
}

// CancelBySystem отменяет бронирование от имени системы
// Используется компенсацией платежной саги и фоновой зачисткой
// просроченных pending_payment. Идемпотентен: уже отмененное
// бронирование не считается ошибкой
func (s *Service) CancelBySystem(ctx context.Context, bookingID int64, reason string) error {
	if reason == "" {
		reason = cancelReason(domain.CancelledBySystem, nil)
	}

	s.logger.Info("CancelBySystem: cancelling booking id=%d, reason=%s", bookingID, reason)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("CancelBySystem: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("CancelBySystem: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: CancelBySystem - repository error: %v", ErrInternal, err)
	}

	if booking.IsCancelled() {
		s.logger.Info("CancelBySystem: booking id=%d is already cancelled, no-op", bookingID)
		return nil
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("CancelBySystem: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	_, err = s.cancel(ctx, booking, reason)
	return err
}

// Confirm переводит бронирование из pending_payment в confirmed
// Вызывается платежной сагой после успешной верификации платежа.
// Из любого другого статуса переход запрещен, включая повторное
// подтверждение
func (s *Service) Confirm(ctx context.Context, bookingID int64, meetingLink string) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	err := s.bookingRepo.ConfirmPending(ctx, bookingID, meetingLink)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotPendingPayment) {
			s.logger.Error("Confirm: booking id=%d is not in pending_payment", bookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Confirm: failed to reload booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Confirm - failed to reload booking: %v", ErrInternal, err)
	}

	s.notifyClient.BookingConfirmed(domain.BookingConfirmedEvent{
		BookingID: booking.ID,
		StudentID: booking.StudentID,
		TutorID:   booking.TutorID,
	})

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// cancel выполняет отмену: условный UPDATE, перевод попытки оплаты
// в abandoned и отправка события
func (s *Service) cancel(ctx context.Context, booking *domain.Booking, reason string) (*models.BookingResponse, error) {
	err := s.bookingRepo.Cancel(ctx, booking.ID, reason)
	if err != nil {
		// Конкурирующая отмена успела раньше - для вызывающего результат тот же
		if errors.Is(err, bookingRepo.ErrNotActive) {
			current, getErr := s.bookingRepo.GetByID(ctx, booking.ID)
			if getErr == nil && current.IsCancelled() {
				s.logger.Info("cancel: booking id=%d was cancelled concurrently, no-op", booking.ID)
				return models.FromDomainBooking(current), nil
			}
			s.logger.Warn("cancel: booking id=%d left active statuses concurrently", booking.ID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("cancel: repository error for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: cancel - repository error: %v", ErrInternal, err)
	}

	s.abandonPaymentAttempt(ctx, booking.ID)

	s.notifyClient.BookingCancelled(domain.BookingCancelledEvent{
		BookingID: booking.ID,
		Reason:    reason,
	})

	cancelled, err := s.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		s.logger.Error("cancel: failed to reload booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: cancel - failed to reload booking: %v", ErrInternal, err)
	}

	s.logger.Info("cancel: successfully cancelled booking id=%d", booking.ID)
	return models.FromDomainBooking(cancelled), nil
}

// abandonPaymentAttempt переводит незавершенную попытку оплаты в abandoned
// Ошибки не прерывают отмену: слот уже освобожден, состояние попытки
// вторично и доводится зачисткой
func (s *Service) abandonPaymentAttempt(ctx context.Context, bookingID int64) {
	attempt, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if !errors.Is(err, paymentRepo.ErrAttemptNotFound) {
			s.logger.Warn("abandonPaymentAttempt: failed to get attempt for booking id=%d: %v", bookingID, err)
		}
		return
	}

	if attempt.IsTerminal() {
		return
	}

	if err := s.paymentRepo.UpdateStatus(ctx, attempt.ID, domain.PaymentAbandoned); err != nil {
		s.logger.Warn("abandonPaymentAttempt: failed to abandon attempt id=%d: %v", attempt.ID, err)
		return
	}

	s.logger.Info("abandonPaymentAttempt: attempt id=%d marked abandoned for booking id=%d", attempt.ID, bookingID)
}

// cancelReason формирует причину отмены
func cancelReason(actor domain.CancelActor, reason *string) string {
	if reason != nil && *reason != "" {
		return *reason
	}
	return fmt.Sprintf("cancelled by %s", actor)
}
