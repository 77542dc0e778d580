package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-TutoringService/internal/integrations/razorpay"
	bookingModels "github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/payments/models"
)

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

type fakeBookingService struct {
	confirmErr    error
	confirmedID   int64
	confirmedLink string
	cancelledIDs  []int64
	cancelReasons []string
}

func (f *fakeBookingService) Confirm(_ context.Context, bookingID int64, meetingLink string) (*bookingModels.BookingResponse, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.confirmedID = bookingID
	f.confirmedLink = meetingLink
	return &bookingModels.BookingResponse{
		ID:          bookingID,
		Status:      string(domain.StatusConfirmed),
		MeetingLink: &meetingLink,
	}, nil
}

func (f *fakeBookingService) CancelBySystem(_ context.Context, bookingID int64, reason string) error {
	f.cancelledIDs = append(f.cancelledIDs, bookingID)
	f.cancelReasons = append(f.cancelReasons, reason)
	return nil
}

type fakePaymentRepo struct {
	attempt   *domain.PaymentAttempt
	succeeded bool
}

func (f *fakePaymentRepo) Create(_ context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	if f.attempt != nil {
		return nil, paymentRepo.ErrAttemptExists
	}
	created := *attempt
	created.ID = 5
	f.attempt = &created
	return &created, nil
}

func (f *fakePaymentRepo) GetByBookingID(_ context.Context, _ int64) (*domain.PaymentAttempt, error) {
	if f.attempt == nil {
		return nil, paymentRepo.ErrAttemptNotFound
	}
	return f.attempt, nil
}

func (f *fakePaymentRepo) SetOrder(_ context.Context, _ int64, externalOrderID string) error {
	f.attempt.ExternalOrderID = &externalOrderID
	f.attempt.Status = domain.PaymentAwaitingConfirmation
	return nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentStatus) error {
	f.attempt.Status = status
	return nil
}

func (f *fakePaymentRepo) MarkSucceeded(_ context.Context, _ int64, externalPaymentID, signature string) error {
	f.attempt.Status = domain.PaymentSucceeded
	f.attempt.ExternalPaymentID = &externalPaymentID
	f.attempt.Signature = &signature
	f.succeeded = true
	return nil
}

type fakeGateway struct {
	order          *razorpay.Order
	createErr      error
	signatureValid bool
}

func (f *fakeGateway) CreateOrder(_ context.Context, _ float64, _, _ string, _ map[string]string) (*razorpay.Order, error) {
	return f.order, f.createErr
}

func (f *fakeGateway) VerifySignature(_, _, _ string) bool {
	return f.signatureValid
}

func (f *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              1,
		StudentID:       42,
		TutorID:         7,
		ScheduledDate:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPendingPayment,
		Currency:        "INR",
		TotalPrice:      118.13,
	}
}

func awaitingAttempt(orderID string) *domain.PaymentAttempt {
	return &domain.PaymentAttempt{
		ID:              5,
		BookingID:       1,
		ExternalOrderID: &orderID,
		Status:          domain.PaymentAwaitingConfirmation,
	}
}

func newTestService(bookings *fakeBookingRepo, bookingSvc *fakeBookingService, payments *fakePaymentRepo, gateway *fakeGateway) *Service {
	return NewService(bookings, bookingSvc, payments, gateway, "https://meet.example.com", noopLogger{})
}

func TestCreateOrder(t *testing.T) {
	payments := &fakePaymentRepo{}
	gateway := &fakeGateway{
		order: &razorpay.Order{ID: "order_123", Amount: 11813, Currency: "INR", Status: "created"},
	}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, &fakeBookingService{}, payments, gateway)

	resp, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 42, BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, "order_123", resp.OrderID)
	// Сумма в минимальных единицах валюты
	assert.Equal(t, int64(11813), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)

	require.NotNil(t, payments.attempt.ExternalOrderID)
	assert.Equal(t, "order_123", *payments.attempt.ExternalOrderID)
	assert.Equal(t, domain.PaymentAwaitingConfirmation, payments.attempt.Status)
}

func TestCreateOrder_ReusesExistingOrder(t *testing.T) {
	payments := &fakePaymentRepo{attempt: awaitingAttempt("order_123")}
	gateway := &fakeGateway{createErr: errors.New("gateway must not be called")}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, &fakeBookingService{}, payments, gateway)

	resp, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 42, BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, "order_123", resp.OrderID)
}

func TestCreateOrder_GatewayFailureCompensates(t *testing.T) {
	payments := &fakePaymentRepo{}
	gateway := &fakeGateway{createErr: razorpay.ErrGatewayUnavailable}
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, bookingSvc, payments, gateway)

	_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 42, BookingID: 1})
	assert.ErrorIs(t, err, ErrGatewayFailed)

	// Попытка помечена failed, бронирование компенсировано
	assert.Equal(t, domain.PaymentFailed, payments.attempt.Status)
	assert.Equal(t, []int64{1}, bookingSvc.cancelledIDs)
}

func TestCreateOrder_AmountBelowMinimum(t *testing.T) {
	booking := pendingBooking()
	booking.TotalPrice = 0.50
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: booking}, bookingSvc, &fakePaymentRepo{}, &fakeGateway{})

	_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 42, BookingID: 1})
	assert.ErrorIs(t, err, ErrAmountTooSmall)
	assert.Equal(t, []int64{1}, bookingSvc.cancelledIDs)
}

func TestCreateOrder_Guards(t *testing.T) {
	t.Run("бронирование не найдено", func(t *testing.T) {
		svc := newTestService(&fakeBookingRepo{}, &fakeBookingService{}, &fakePaymentRepo{}, &fakeGateway{})
		_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 42, BookingID: 1})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("оплату создает только студент", func(t *testing.T) {
		svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, &fakeBookingService{}, &fakePaymentRepo{}, &fakeGateway{})
		_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 7, BookingID: 1})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("подтвержденное бронирование не оплачивается повторно", func(t *testing.T) {
		booking := pendingBooking()
		booking.Status = domain.StatusConfirmed
		svc := newTestService(&fakeBookingRepo{booking: booking}, &fakeBookingService{}, &fakePaymentRepo{}, &fakeGateway{})
		_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{UserID: 42, BookingID: 1})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestVerifyPayment(t *testing.T) {
	payments := &fakePaymentRepo{attempt: awaitingAttempt("order_123")}
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, bookingSvc, payments, &fakeGateway{signatureValid: true})

	resp, err := svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		UserID:    42,
		BookingID: 1,
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "sig",
	})
	require.NoError(t, err)

	assert.True(t, payments.succeeded)
	assert.Equal(t, int64(1), bookingSvc.confirmedID)
	assert.Contains(t, bookingSvc.confirmedLink, "https://meet.example.com/")
	assert.Equal(t, string(domain.StatusConfirmed), resp.Booking.Status)
}

func TestVerifyPayment_SignatureMismatchCompensates(t *testing.T) {
	payments := &fakePaymentRepo{attempt: awaitingAttempt("order_123")}
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, bookingSvc, payments, &fakeGateway{signatureValid: false})

	_, err := svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		UserID:    42,
		BookingID: 1,
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "forged",
	})
	assert.ErrorIs(t, err, ErrVerificationFailed)

	assert.Equal(t, domain.PaymentFailed, payments.attempt.Status)
	assert.Equal(t, []int64{1}, bookingSvc.cancelledIDs)
	assert.Equal(t, int64(0), bookingSvc.confirmedID)
}

func TestVerifyPayment_DuplicateIsNoOp(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	orderID := "order_123"
	payments := &fakePaymentRepo{
		attempt: &domain.PaymentAttempt{
			ID:              5,
			BookingID:       1,
			ExternalOrderID: &orderID,
			Status:          domain.PaymentSucceeded,
		},
	}
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: booking}, bookingSvc, payments, &fakeGateway{signatureValid: true})

	resp, err := svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		UserID:    42,
		BookingID: 1,
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "sig",
	})
	require.NoError(t, err)

	// Повторное подтверждение не запускает сагу заново
	assert.Equal(t, int64(0), bookingSvc.confirmedID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Booking.Status)
}

func TestVerifyPayment_OrderMismatch(t *testing.T) {
	payments := &fakePaymentRepo{attempt: awaitingAttempt("order_123")}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, &fakeBookingService{}, payments, &fakeGateway{signatureValid: true})

	_, err := svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		UserID:    42,
		BookingID: 1,
		OrderID:   "order_other",
		PaymentID: "pay_456",
		Signature: "sig",
	})
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestDismissPayment(t *testing.T) {
	payments := &fakePaymentRepo{attempt: awaitingAttempt("order_123")}
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, bookingSvc, payments, &fakeGateway{})

	err := svc.DismissPayment(context.Background(), &models.DismissPaymentRequest{UserID: 42, BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentAbandoned, payments.attempt.Status)
	assert.Equal(t, []int64{1}, bookingSvc.cancelledIDs)
	assert.Equal(t, []string{"payment dismissed by user"}, bookingSvc.cancelReasons)
}

func TestDismissPayment_SucceededAttempt(t *testing.T) {
	orderID := "order_123"
	payments := &fakePaymentRepo{
		attempt: &domain.PaymentAttempt{
			ID:              5,
			BookingID:       1,
			ExternalOrderID: &orderID,
			Status:          domain.PaymentSucceeded,
		},
	}
	bookingSvc := &fakeBookingService{}
	svc := newTestService(&fakeBookingRepo{booking: pendingBooking()}, bookingSvc, payments, &fakeGateway{})

	err := svc.DismissPayment(context.Background(), &models.DismissPaymentRequest{UserID: 42, BookingID: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, bookingSvc.cancelledIDs)
}
