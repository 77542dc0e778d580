package reserve_booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/integrations/tutorservice"
	"github.com/m04kA/SMC-TutoringService/pkg/ptr"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	created  *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = 101
	created.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetByTutorWithFilter(_ context.Context, _ domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeScheduleRepo struct {
	schedule     domain.WeeklySchedule
	slotDuration int
	blockedDates []*domain.BlockedDate
}

func (f *fakeScheduleRepo) GetWeeklySchedule(_ context.Context, _ int64) (domain.WeeklySchedule, error) {
	return f.schedule, nil
}

func (f *fakeScheduleRepo) GetBlockedDates(_ context.Context, _ int64, _, _ time.Time) ([]*domain.BlockedDate, error) {
	return f.blockedDates, nil
}

func (f *fakeScheduleRepo) GetSlotDuration(_ context.Context, _ int64) (int, error) {
	return f.slotDuration, nil
}

type fakeTutorClient struct {
	tutor *tutorservice.Tutor
	err   error
}

func (f *fakeTutorClient) GetTutor(_ context.Context, _ int64) (*tutorservice.Tutor, error) {
	return f.tutor, f.err
}

type fakeTxManager struct {
	err error
}

func (f fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func activeTutor() *tutorservice.Tutor {
	return &tutorservice.Tutor{
		ID:         1,
		HourlyRate: 75,
		Currency:   "INR",
		IsActive:   true,
	}
}

func mondaySchedule() domain.WeeklySchedule {
	return domain.WeeklySchedule{
		time.Monday: {
			{StartTime: "09:00", EndTime: "12:00"},
		},
	}
}

// Понедельник 16 марта 2026
var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func newTestUseCase(bookingRepo *fakeBookingRepo, scheduleRepo *fakeScheduleRepo, tutorClient *fakeTutorClient) *UseCase {
	uc := NewUseCase(bookingRepo, scheduleRepo, tutorClient, fakeTxManager{}, 0.05, 60, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_ReservesSlot(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 90}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	resp, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionPrivate,
		Subject:     "математика",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
	assert.Equal(t, 90, resp.DurationMinutes)

	// Цена фиксируется в момент бронирования: 75/час * 90 мин + 5%
	assert.Equal(t, 112.50, resp.BasePrice)
	assert.Equal(t, 5.63, resp.PlatformFee)
	assert.Equal(t, 118.13, resp.TotalPrice)
	assert.Equal(t, "INR", resp.Currency)

	require.NotNil(t, bookingRepo.created)
	assert.Equal(t, domain.StatusPendingPayment, bookingRepo.created.Status)
}

func TestExecute_SlotConflict(t *testing.T) {
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				TutorID:         1,
				ScheduledDate:   testDate,
				StartTime:       "09:30",
				DurationMinutes: 60,
				Status:          domain.StatusPendingPayment,
			},
		},
	}
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	_, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionPrivate,
		Subject:     "физика",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, bookingRepo.created)
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	// Две одновременные транзакции не видят вставки друг друга:
	// проигравшая откатывается на коммите с SQLSTATE 40001 и должна
	// получить тот же конфликт слота, что и при обычном пересечении
	uc.txManager = fakeTxManager{
		err: fmt.Errorf("txmanager: commit transaction: %w", &pq.Error{Code: "40001"}),
	}

	_, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionPrivate,
		Subject:     "математика",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_Validation(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	tests := []struct {
		name    string
		subject string
		notes   *string
	}{
		{name: "пустой предмет", subject: ""},
		{name: "слишком длинный предмет", subject: strings.Repeat("а", domain.MaxSubjectLength+1)},
		{name: "слишком длинные заметки", subject: "математика",
			notes: ptr.Ptr(strings.Repeat("а", domain.MaxNotesLength+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{
				StudentID:   42,
				TutorID:     1,
				Date:        testDate,
				StartTime:   "09:00",
				SessionType: domain.SessionPrivate,
				Subject:     tt.subject,
				Notes:       tt.notes,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_AdjacentBookingIsNotConflict(t *testing.T) {
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				TutorID:         1,
				ScheduledDate:   testDate,
				StartTime:       "09:00",
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
			},
		},
	}
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	// Бронирование 09:00-10:00 не закрывает слот 10:00
	_, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "10:00",
		SessionType: domain.SessionPrivate,
		Subject:     "химия",
	})
	require.NoError(t, err)
}

func TestExecute_InvalidSlot(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	tests := []struct {
		name      string
		startTime string
	}{
		{name: "время вне сетки слотов", startTime: "09:30"},
		{name: "время вне рабочих интервалов", startTime: "14:00"},
		{name: "слот не помещается в интервал", startTime: "11:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{
				StudentID:   42,
				TutorID:     1,
				Date:        testDate,
				StartTime:   types.TimeString(tt.startTime),
				SessionType: domain.SessionPrivate,
				Subject:     "математика",
			})
			assert.ErrorIs(t, err, ErrInvalidSlot)
		})
	}
}

func TestExecute_DateBlocked(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		schedule:     mondaySchedule(),
		slotDuration: 60,
		blockedDates: []*domain.BlockedDate{
			{TutorID: 1, Date: testDate},
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})

	_, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionPrivate,
		Subject:     "математика",
	})
	assert.ErrorIs(t, err, ErrDateBlocked)
}

func TestExecute_TutorChecks(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}

	t.Run("тьютор не найден", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo,
			&fakeTutorClient{err: tutorservice.ErrTutorNotFound})

		_, err := uc.Execute(context.Background(), &Request{
			StudentID:   42,
			TutorID:     99,
			Date:        testDate,
			StartTime:   "09:00",
			SessionType: domain.SessionPrivate,
			Subject:     "математика",
		})
		assert.ErrorIs(t, err, ErrTutorNotFound)
	})

	t.Run("тьютор деактивирован", func(t *testing.T) {
		inactive := activeTutor()
		inactive.IsActive = false
		uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: inactive})

		_, err := uc.Execute(context.Background(), &Request{
			StudentID:   42,
			TutorID:     1,
			Date:        testDate,
			StartTime:   "09:00",
			SessionType: domain.SessionPrivate,
			Subject:     "математика",
		})
		assert.ErrorIs(t, err, ErrTutorInactive)
	})
}

func TestExecute_PastDate(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)}

	_, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionPrivate,
		Subject:     "математика",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_TodayStartedSlot(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTutorClient{tutor: activeTutor()})
	// Сегодня день бронирования, 10:00 - слот 09:00 уже начался
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)}

	_, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionPrivate,
		Subject:     "математика",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	// Будущий слот того же дня остается доступным
	_, err = uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "11:00",
		SessionType: domain.SessionPrivate,
		Subject:     "математика",
	})
	require.NoError(t, err)
}

func TestExecute_GroupSessionRate(t *testing.T) {
	groupRate := 45.0
	tutor := activeTutor()
	tutor.GroupHourlyRate = &groupRate

	bookingRepo := &fakeBookingRepo{}
	scheduleRepo := &fakeScheduleRepo{schedule: mondaySchedule(), slotDuration: 60}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTutorClient{tutor: tutor})

	resp, err := uc.Execute(context.Background(), &Request{
		StudentID:   42,
		TutorID:     1,
		Date:        testDate,
		StartTime:   "09:00",
		SessionType: domain.SessionGroup,
		Subject:     "математика",
	})
	require.NoError(t, err)

	assert.Equal(t, 45.0, resp.BasePrice)
	assert.Equal(t, 2.25, resp.PlatformFee)
	assert.Equal(t, 47.25, resp.TotalPrice)
}
