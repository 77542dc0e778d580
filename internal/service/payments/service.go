package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/payment"
	bookingModels "github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/payments/models"
)

// Service платежная сага бронирования
// Координирует жизненный цикл оплаты: создание заказа во внешнем шлюзе,
// верификацию подтверждения и компенсацию при сбое. Любой терминальный
// сбой саги освобождает слот - немедленной отменой или через фоновую
// зачистку просроченных pending_payment
type Service struct {
	bookingRepo        BookingRepository
	bookingService     BookingService
	paymentRepo        PaymentRepository
	gateway            PaymentGateway
	meetingLinkBaseURL string
	logger             Logger
}

// NewService создает новый экземпляр платежного сервиса
func NewService(
	bookingRepo BookingRepository,
	bookingService BookingService,
	paymentRepo PaymentRepository,
	gateway PaymentGateway,
	meetingLinkBaseURL string,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:        bookingRepo,
		bookingService:     bookingService,
		paymentRepo:        paymentRepo,
		gateway:            gateway,
		meetingLinkBaseURL: meetingLinkBaseURL,
		logger:             logger,
	}
}

// CreateOrder создает платежный заказ для бронирования
// Сбой шлюза или недопустимая сумма компенсируются немедленно:
// бронирование отменяется, слот освобождается - нет смысла держать
// слот, если оплату невозможно даже начать
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	s.logger.Info("CreateOrder: booking id=%d, user=%d", req.BookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("CreateOrder: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("CreateOrder: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: CreateOrder - repository error: %v", ErrInternal, err)
	}

	if booking.StudentID != req.UserID {
		s.logger.Warn("CreateOrder: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusPendingPayment {
		s.logger.Warn("CreateOrder: booking id=%d is not awaiting payment, status=%s", req.BookingID, booking.Status)
		return nil, ErrInvalidState
	}

	if booking.TotalPrice < domain.MinOrderAmount {
		s.logger.Warn("CreateOrder: booking id=%d amount %.2f is below minimum %.2f, compensating",
			req.BookingID, booking.TotalPrice, domain.MinOrderAmount)
		s.compensate(ctx, booking.ID, "order amount below gateway minimum")
		return nil, ErrAmountTooSmall
	}

	attempt, err := s.obtainAttempt(ctx, booking)
	if err != nil {
		return nil, err
	}

	// Заказ уже создан ранее - повторный вызов возвращает те же данные
	if attempt.Status == domain.PaymentAwaitingConfirmation && attempt.ExternalOrderID != nil {
		s.logger.Info("CreateOrder: reusing existing order %s for booking id=%d", *attempt.ExternalOrderID, req.BookingID)
		return s.orderResponse(booking, *attempt.ExternalOrderID), nil
	}

	if attempt.IsTerminal() {
		s.logger.Warn("CreateOrder: attempt id=%d for booking id=%d is already terminal, status=%s",
			attempt.ID, req.BookingID, attempt.Status)
		return nil, ErrInvalidState
	}

	receipt := fmt.Sprintf("booking_%d", booking.ID)
	notes := map[string]string{
		"booking_id": fmt.Sprintf("%d", booking.ID),
		"subject":    booking.Subject,
	}

	order, err := s.gateway.CreateOrder(ctx, booking.TotalPrice, booking.Currency, receipt, notes)
	if err != nil {
		s.logger.Error("CreateOrder: gateway failed for booking id=%d: %v", req.BookingID, err)

		if updErr := s.paymentRepo.UpdateStatus(ctx, attempt.ID, domain.PaymentFailed); updErr != nil {
			s.logger.Warn("CreateOrder: failed to mark attempt id=%d failed: %v", attempt.ID, updErr)
		}
		s.compensate(ctx, booking.ID, "payment order creation failed")

		return nil, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}

	if err := s.paymentRepo.SetOrder(ctx, attempt.ID, order.ID); err != nil {
		s.logger.Error("CreateOrder: failed to store order id for attempt id=%d: %v", attempt.ID, err)
		return nil, fmt.Errorf("%w: CreateOrder - failed to store order id: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOrder: order %s created for booking id=%d, amount=%d %s",
		order.ID, booking.ID, order.Amount, order.Currency)

	return s.orderResponse(booking, order.ID), nil
}

// VerifyPayment верифицирует подтверждение оплаты от checkout
// Повторное подтверждение уже оплаченного бронирования - no-op.
// Несовпадение подписи трактуется как возможная подделка: попытка
// помечается failed, бронирование компенсируется, ошибка отличима
// от обычного сбоя
func (s *Service) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	s.logger.Info("VerifyPayment: booking id=%d, order=%s", req.BookingID, req.OrderID)

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("VerifyPayment: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("VerifyPayment: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: VerifyPayment - repository error: %v", ErrInternal, err)
	}

	if booking.StudentID != req.UserID {
		s.logger.Warn("VerifyPayment: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	attempt, err := s.paymentRepo.GetByBookingID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAttemptNotFound) {
			s.logger.Warn("VerifyPayment: no payment attempt for booking id=%d", req.BookingID)
			return nil, ErrAttemptNotFound
		}
		s.logger.Error("VerifyPayment: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: VerifyPayment - repository error: %v", ErrInternal, err)
	}

	// Дубликат подтверждения для уже оплаченного бронирования
	if attempt.IsSucceeded() && booking.Status == domain.StatusConfirmed {
		s.logger.Info("VerifyPayment: booking id=%d is already confirmed, duplicate confirmation is a no-op", req.BookingID)
		return s.verifiedResponse(ctx, req.BookingID)
	}

	if attempt.ExternalOrderID == nil || *attempt.ExternalOrderID != req.OrderID {
		s.logger.Warn("VerifyPayment: order mismatch for booking id=%d: got=%s", req.BookingID, req.OrderID)
		return nil, ErrOrderMismatch
	}

	if attempt.IsTerminal() {
		s.logger.Warn("VerifyPayment: attempt id=%d is already terminal, status=%s", attempt.ID, attempt.Status)
		return nil, ErrInvalidState
	}

	if err := s.paymentRepo.UpdateStatus(ctx, attempt.ID, domain.PaymentVerifying); err != nil {
		s.logger.Error("VerifyPayment: failed to mark attempt id=%d verifying: %v", attempt.ID, err)
		return nil, fmt.Errorf("%w: VerifyPayment - failed to update attempt: %v", ErrInternal, err)
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.logger.Error("VerifyPayment: signature mismatch for booking id=%d, order=%s - possible tampering",
			req.BookingID, req.OrderID)

		if updErr := s.paymentRepo.UpdateStatus(ctx, attempt.ID, domain.PaymentFailed); updErr != nil {
			s.logger.Warn("VerifyPayment: failed to mark attempt id=%d failed: %v", attempt.ID, updErr)
		}
		s.compensate(ctx, req.BookingID, "payment verification failed")

		return nil, ErrVerificationFailed
	}

	if err := s.paymentRepo.MarkSucceeded(ctx, attempt.ID, req.PaymentID, req.Signature); err != nil {
		s.logger.Error("VerifyPayment: failed to mark attempt id=%d succeeded: %v", attempt.ID, err)
		return nil, fmt.Errorf("%w: VerifyPayment - failed to mark attempt succeeded: %v", ErrInternal, err)
	}

	meetingLink := fmt.Sprintf("%s/%s", s.meetingLinkBaseURL, uuid.NewString())

	confirmed, err := s.bookingService.Confirm(ctx, req.BookingID, meetingLink)
	if err != nil {
		// Бронирование ушло из pending_payment между верификацией и
		// подтверждением (например, отменено зачисткой). Платеж прошел,
		// слот уже освобожден - конфликт разрешается вне саги
		s.logger.Error("VerifyPayment: payment succeeded but booking id=%d could not be confirmed: %v",
			req.BookingID, err)
		return nil, fmt.Errorf("%w: VerifyPayment - failed to confirm booking: %v", ErrInternal, err)
	}

	s.logger.Info("VerifyPayment: booking id=%d confirmed, payment=%s", req.BookingID, req.PaymentID)

	return &models.VerifyPaymentResponse{Booking: confirmed}, nil
}

// DismissPayment обрабатывает отказ от оплаты (пользователь закрыл checkout)
// Попытка переводится в abandoned, бронирование компенсируется best-effort:
// сбой отмены не возвращается вызывающему - просроченный pending_payment
// доведет до cancelled фоновая зачистка
func (s *Service) DismissPayment(ctx context.Context, req *models.DismissPaymentRequest) error {
	s.logger.Info("DismissPayment: booking id=%d, user=%d", req.BookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("DismissPayment: booking id=%d not found", req.BookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("DismissPayment: repository error for booking id=%d: %v", req.BookingID, err)
		return fmt.Errorf("%w: DismissPayment - repository error: %v", ErrInternal, err)
	}

	if booking.StudentID != req.UserID {
		s.logger.Warn("DismissPayment: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
		return ErrAccessDenied
	}

	attempt, err := s.paymentRepo.GetByBookingID(ctx, req.BookingID)
	if err != nil && !errors.Is(err, paymentRepo.ErrAttemptNotFound) {
		s.logger.Error("DismissPayment: repository error for booking id=%d: %v", req.BookingID, err)
		return fmt.Errorf("%w: DismissPayment - repository error: %v", ErrInternal, err)
	}

	if attempt != nil {
		if attempt.IsSucceeded() {
			s.logger.Warn("DismissPayment: attempt id=%d already succeeded, dismiss ignored", attempt.ID)
			return ErrInvalidState
		}

		if !attempt.IsTerminal() {
			if err := s.paymentRepo.UpdateStatus(ctx, attempt.ID, domain.PaymentAbandoned); err != nil {
				s.logger.Warn("DismissPayment: failed to abandon attempt id=%d: %v", attempt.ID, err)
			}
		}
	}

	s.compensate(ctx, req.BookingID, "payment dismissed by user")

	s.logger.Info("DismissPayment: booking id=%d dismissed", req.BookingID)
	return nil
}

// obtainAttempt возвращает попытку оплаты бронирования, создавая новую
// при первом обращении. Уникальный индекс booking_id делает создание
// безопасным при конкурентных вызовах
func (s *Service) obtainAttempt(ctx context.Context, booking *domain.Booking) (*domain.PaymentAttempt, error) {
	attempt, err := s.paymentRepo.Create(ctx, &domain.PaymentAttempt{
		BookingID: booking.ID,
		Status:    domain.PaymentCreated,
	})
	if err == nil {
		return attempt, nil
	}

	if !errors.Is(err, paymentRepo.ErrAttemptExists) {
		s.logger.Error("obtainAttempt: failed to create attempt for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: obtainAttempt - failed to create attempt: %v", ErrInternal, err)
	}

	attempt, err = s.paymentRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		s.logger.Error("obtainAttempt: failed to get existing attempt for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: obtainAttempt - failed to get attempt: %v", ErrInternal, err)
	}

	return attempt, nil
}

// compensate best-effort отмена бронирования
// Сбой компенсации логируется и не прерывает вызывающего: зависшие
// pending_payment добирает фоновая зачистка
func (s *Service) compensate(ctx context.Context, bookingID int64, reason string) {
	if err := s.bookingService.CancelBySystem(ctx, bookingID, reason); err != nil {
		s.logger.Error("compensate: failed to cancel booking id=%d: %v - leaving for reconciliation sweep",
			bookingID, err)
	}
}

// verifiedResponse возвращает актуальное состояние бронирования
func (s *Service) verifiedResponse(ctx context.Context, bookingID int64) (*models.VerifyPaymentResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("verifiedResponse: failed to reload booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}

	return &models.VerifyPaymentResponse{Booking: bookingModels.FromDomainBooking(booking)}, nil
}

// orderResponse собирает данные для открытия checkout
func (s *Service) orderResponse(booking *domain.Booking, orderID string) *models.CreateOrderResponse {
	return &models.CreateOrderResponse{
		BookingID: booking.ID,
		OrderID:   orderID,
		Amount:    int64(math.Round(booking.TotalPrice * 100)),
		Currency:  booking.Currency,
		KeyID:     s.gateway.KeyID(),
	}
}
