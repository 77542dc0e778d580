package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByStudentID(_ context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.StudentID != studentID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByTutorWithFilter(_ context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.TutorID != filter.TutorID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ConfirmPending(_ context.Context, id int64, meetingLink string) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.StatusPendingPayment {
		return bookingRepo.ErrNotPendingPayment
	}
	b.Status = domain.StatusConfirmed
	b.MeetingLink = &meetingLink
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok || !b.IsActive() {
		return bookingRepo.ErrNotActive
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

type fakePaymentRepo struct {
	attempt  *domain.PaymentAttempt
	statuses []domain.PaymentStatus
}

func (f *fakePaymentRepo) GetByBookingID(_ context.Context, _ int64) (*domain.PaymentAttempt, error) {
	if f.attempt == nil {
		return nil, paymentRepo.ErrAttemptNotFound
	}
	return f.attempt, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentStatus) error {
	f.attempt.Status = status
	f.statuses = append(f.statuses, status)
	return nil
}

type fakeNotifyClient struct {
	confirmed []domain.BookingConfirmedEvent
	cancelled []domain.BookingCancelledEvent
}

func (f *fakeNotifyClient) BookingConfirmed(event domain.BookingConfirmedEvent) {
	f.confirmed = append(f.confirmed, event)
}

func (f *fakeNotifyClient) BookingCancelled(event domain.BookingCancelledEvent) {
	f.cancelled = append(f.cancelled, event)
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
		SessionType:     domain.SessionPrivate,
		Subject:         "математика",
		Status:          domain.StatusPendingPayment,
		Currency:        "INR",
		TotalPrice:      105,
	}
}

func TestCancel_ByStudent(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	payments := &fakePaymentRepo{
		attempt: &domain.PaymentAttempt{ID: 5, BookingID: 1, Status: domain.PaymentCreated},
	}
	notify := &fakeNotifyClient{}
	svc := NewService(repo, payments, notify, noopLogger{})

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "cancelled by student", *resp.CancellationReason)

	// Незавершенная попытка оплаты переводится в abandoned
	assert.Equal(t, domain.PaymentAbandoned, payments.attempt.Status)

	require.Len(t, notify.cancelled, 1)
	assert.Equal(t, int64(1), notify.cancelled[0].BookingID)
}

func TestCancel_Idempotent(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(booking)
	notify := &fakeNotifyClient{}
	svc := NewService(repo, &fakePaymentRepo{}, notify, noopLogger{})

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	// Повторная отмена не дублирует событие
	assert.Empty(t, notify.cancelled)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_CompletedBooking(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCompleted
	repo := newFakeBookingRepo(booking)
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_CustomReason(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 7, Reason: ptr.Ptr("заболел")})
	require.NoError(t, err)

	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "заболел", *resp.CancellationReason)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: 42,
		Reason: ptr.Ptr(strings.Repeat("а", domain.MaxCancellationReasonLength+1)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Бронирование осталось активным
	assert.Equal(t, domain.StatusPendingPayment, repo.bookings[1].Status)
}

func TestCancelBySystem_DefaultReason(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	require.NoError(t, svc.CancelBySystem(context.Background(), 1, ""))

	require.NotNil(t, repo.bookings[1].CancellationReason)
	assert.Equal(t, "cancelled by system", *repo.bookings[1].CancellationReason)
}

func TestCancelBySystem_Idempotent(t *testing.T) {
	booking := pendingBooking()
	repo := newFakeBookingRepo(booking)
	notify := &fakeNotifyClient{}
	svc := NewService(repo, &fakePaymentRepo{}, notify, noopLogger{})

	require.NoError(t, svc.CancelBySystem(context.Background(), 1, "payment window expired"))
	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)

	// Повторный вызов - no-op без ошибки
	require.NoError(t, svc.CancelBySystem(context.Background(), 1, "payment window expired"))
	assert.Len(t, notify.cancelled, 1)
}

func TestConfirm(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	notify := &fakeNotifyClient{}
	svc := NewService(repo, &fakePaymentRepo{}, notify, noopLogger{})

	resp, err := svc.Confirm(context.Background(), 1, "https://meet.example.com/abc")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.MeetingLink)
	assert.Equal(t, "https://meet.example.com/abc", *resp.MeetingLink)

	require.Len(t, notify.confirmed, 1)
	assert.Equal(t, int64(42), notify.confirmed[0].StudentID)
	assert.Equal(t, int64(7), notify.confirmed[0].TutorID)
}

func TestConfirm_InvalidTransition(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(booking)
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	_, err := svc.Confirm(context.Background(), 1, "https://meet.example.com/abc")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetByID_AccessControl(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	// Студент и тьютор видят бронирование
	_, err := svc.GetByID(context.Background(), 1, 42)
	assert.NoError(t, err)
	_, err = svc.GetByID(context.Background(), 1, 7)
	assert.NoError(t, err)

	// Посторонний пользователь - нет
	_, err = svc.GetByID(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 404, 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetTutorBookings_AccessDenied(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	_, err := svc.GetTutorBookings(context.Background(), &models.GetTutorBookingsRequest{
		UserID:  42,
		TutorID: 7,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetStudentBookings_InvalidStatus(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewService(repo, &fakePaymentRepo{}, &fakeNotifyClient{}, noopLogger{})

	_, err := svc.GetStudentBookings(context.Background(), &models.GetStudentBookingsRequest{
		StudentID: 42,
		Status:    ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
