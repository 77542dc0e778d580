package get_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetByTutorWithFilter(_ context.Context, _ domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeScheduleRepo struct {
	schedule        domain.WeeklySchedule
	slotDuration    int
	slotDurationErr error
	blockedDates    []*domain.BlockedDate
}

func (f *fakeScheduleRepo) GetWeeklySchedule(_ context.Context, _ int64) (domain.WeeklySchedule, error) {
	return f.schedule, nil
}

func (f *fakeScheduleRepo) GetBlockedDates(_ context.Context, _ int64, _, _ time.Time) ([]*domain.BlockedDate, error) {
	return f.blockedDates, nil
}

func (f *fakeScheduleRepo) GetSlotDuration(_ context.Context, _ int64) (int, error) {
	if f.slotDurationErr != nil {
		return 0, f.slotDurationErr
	}
	return f.slotDuration, nil
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

func dayByDate(t *testing.T, days []domain.CalendarDay, date string) domain.CalendarDay {
	t.Helper()
	for _, d := range days {
		if d.Date.Format(domain.DateFormat) == date {
			return d
		}
	}
	t.Fatalf("day %s not found in calendar", date)
	return domain.CalendarDay{}
}

func TestExecute_MonthCalendar(t *testing.T) {
	blockReason := "отпуск"

	scheduleRepository := &fakeScheduleRepo{
		schedule: domain.WeeklySchedule{
			time.Monday: {
				{StartTime: "09:00", EndTime: "12:00"},
			},
		},
		slotDuration: 60,
		blockedDates: []*domain.BlockedDate{
			{
				TutorID: 1,
				Date:    time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC),
				Reason:  &blockReason,
			},
		},
	}
	bookingRepository := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				TutorID:         1,
				ScheduledDate:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
				StartTime:       "10:00",
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
			},
		},
	}

	uc := NewUseCase(bookingRepository, scheduleRepository, 60, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:  42,
		TutorID: 1,
		Year:    2026,
		Month:   time.March,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.TutorID)
	assert.Equal(t, 60, resp.SlotDurationMinutes)
	assert.Len(t, resp.Days, 31)

	// Обычный понедельник: все слоты расписания доступны
	monday := dayByDate(t, resp.Days, "2026-03-02")
	assert.True(t, monday.IsAvailable)
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00"}, monday.TimeSlots)
	assert.Equal(t, 3, monday.SlotCount)

	// Понедельник с активным бронированием на 10:00
	booked := dayByDate(t, resp.Days, "2026-03-16")
	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, booked.TimeSlots)
	assert.True(t, booked.HasSlot("09:00"))
	assert.False(t, booked.HasSlot("10:00"))

	// Заблокированная дата перекрывает расписание целиком
	blocked := dayByDate(t, resp.Days, "2026-03-23")
	assert.False(t, blocked.IsAvailable)
	assert.True(t, blocked.IsBlocked)
	require.NotNil(t, blocked.BlockReason)
	assert.Equal(t, blockReason, *blocked.BlockReason)
	assert.Empty(t, blocked.TimeSlots)

	// День без рабочих интервалов недоступен
	tuesday := dayByDate(t, resp.Days, "2026-03-03")
	assert.False(t, tuesday.IsAvailable)
	assert.Empty(t, tuesday.TimeSlots)
}

func TestExecute_PastDaysUnavailable(t *testing.T) {
	scheduleRepository := &fakeScheduleRepo{
		schedule: domain.WeeklySchedule{
			time.Monday: {{StartTime: "09:00", EndTime: "12:00"}},
		},
		slotDuration: 60,
	}

	uc := NewUseCase(&fakeBookingRepo{}, scheduleRepository, 60, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{
		TutorID: 1,
		Year:    2026,
		Month:   time.March,
	})
	require.NoError(t, err)

	// Понедельник 16 марта уже прошел
	past := dayByDate(t, resp.Days, "2026-03-16")
	assert.False(t, past.IsAvailable)
	assert.Empty(t, past.TimeSlots)

	// Понедельник 30 марта еще впереди
	future := dayByDate(t, resp.Days, "2026-03-30")
	assert.True(t, future.IsAvailable)
	assert.Equal(t, 3, future.SlotCount)
}

func TestExecute_TodayStartedSlotsFiltered(t *testing.T) {
	scheduleRepository := &fakeScheduleRepo{
		schedule: domain.WeeklySchedule{
			time.Monday: {{StartTime: "09:00", EndTime: "12:00"}},
		},
		slotDuration: 60,
	}

	uc := NewUseCase(&fakeBookingRepo{}, scheduleRepository, 60, noopLogger{})
	// Сегодня понедельник 16 марта, 10:00 - слоты 09:00 и 10:00 уже начались
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{
		TutorID: 1,
		Year:    2026,
		Month:   time.March,
	})
	require.NoError(t, err)

	today := dayByDate(t, resp.Days, "2026-03-16")
	assert.Equal(t, []types.TimeString{"11:00"}, today.TimeSlots)
}

func TestExecute_DefaultSlotDuration(t *testing.T) {
	scheduleRepository := &fakeScheduleRepo{
		schedule: domain.WeeklySchedule{
			time.Monday: {{StartTime: "09:00", EndTime: "11:00"}},
		},
		slotDurationErr: scheduleRepo.ErrAvailabilityNotFound,
	}

	// Тьютор не задал длительность слота - берется значение из конфигурации
	uc := NewUseCase(&fakeBookingRepo{}, scheduleRepository, 45, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{
		TutorID: 1,
		Year:    2026,
		Month:   time.March,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, resp.SlotDurationMinutes)

	// Хвост 10:30-11:00 короче слота и отбрасывается
	monday := dayByDate(t, resp.Days, "2026-03-02")
	assert.Equal(t, []types.TimeString{"09:00", "09:45"}, monday.TimeSlots)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, 60, noopLogger{})

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "нулевой ID тьютора", req: &Request{TutorID: 0, Year: 2026, Month: time.March}},
		{name: "некорректный месяц", req: &Request{TutorID: 1, Year: 2026, Month: time.Month(13)}},
		{name: "год вне диапазона", req: &Request{TutorID: 1, Year: 1999, Month: time.March}},
		{name: "неизвестный тип сессии", req: &Request{TutorID: 1, Year: 2026, Month: time.March, SessionType: "corporate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
