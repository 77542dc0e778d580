package get_calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

func TestGenerateDaySlots(t *testing.T) {
	tests := []struct {
		name         string
		ranges       []domain.TimeRange
		slotDuration int
		want         []types.TimeString
	}{
		{
			name:         "трехчасовой интервал с часовыми слотами",
			ranges:       []domain.TimeRange{{StartTime: "09:00", EndTime: "12:00"}},
			slotDuration: 60,
			want:         []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name:         "неполный хвост отбрасывается",
			ranges:       []domain.TimeRange{{StartTime: "09:00", EndTime: "10:30"}},
			slotDuration: 60,
			want:         []types.TimeString{"09:00"},
		},
		{
			name: "два интервала сортируются по времени",
			ranges: []domain.TimeRange{
				{StartTime: "14:00", EndTime: "16:00"},
				{StartTime: "09:00", EndTime: "11:00"},
			},
			slotDuration: 60,
			want:         []types.TimeString{"09:00", "10:00", "14:00", "15:00"},
		},
		{
			name: "пересекающиеся интервалы не дублируют слоты",
			ranges: []domain.TimeRange{
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "09:00", EndTime: "11:00"},
			},
			slotDuration: 60,
			want:         []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name:         "интервал короче слота не порождает слотов",
			ranges:       []domain.TimeRange{{StartTime: "09:00", EndTime: "09:30"}},
			slotDuration: 60,
			want:         []types.TimeString{},
		},
		{
			name:         "инвертированный интервал игнорируется",
			ranges:       []domain.TimeRange{{StartTime: "12:00", EndTime: "09:00"}},
			slotDuration: 60,
			want:         []types.TimeString{},
		},
		{
			name:         "пустое расписание",
			ranges:       nil,
			slotDuration: 60,
			want:         []types.TimeString{},
		},
		{
			name:         "получасовые слоты",
			ranges:       []domain.TimeRange{{StartTime: "10:00", EndTime: "11:30"}},
			slotDuration: 30,
			want:         []types.TimeString{"10:00", "10:30", "11:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generateDaySlots(tt.ranges, tt.slotDuration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateDaySlots_Deterministic(t *testing.T) {
	ranges := []domain.TimeRange{
		{StartTime: "14:00", EndTime: "18:00"},
		{StartTime: "09:00", EndTime: "12:00"},
		{StartTime: "10:00", EndTime: "15:00"},
	}

	first, err := generateDaySlots(ranges, 60)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := generateDaySlots(ranges, 60)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestFilterBookedSlots(t *testing.T) {
	slots := []types.TimeString{"09:00", "10:00", "11:00"}

	tests := []struct {
		name     string
		bookings []*domain.Booking
		want     []types.TimeString
	}{
		{
			name:     "без бронирований все слоты доступны",
			bookings: nil,
			want:     []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name: "бронирование закрывает свой слот",
			bookings: []*domain.Booking{
				{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
			},
			want: []types.TimeString{"09:00", "11:00"},
		},
		{
			name: "неоплаченный резерв тоже удерживает слот",
			bookings: []*domain.Booking{
				{StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusPendingPayment},
			},
			want: []types.TimeString{"10:00", "11:00"},
		},
		{
			name: "отмененное бронирование не удерживает слот",
			bookings: []*domain.Booking{
				{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
			},
			want: []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name: "длинное бронирование закрывает несколько слотов",
			bookings: []*domain.Booking{
				{StartTime: "09:30", DurationMinutes: 90, Status: domain.StatusConfirmed},
			},
			want: []types.TimeString{"11:00"},
		},
		{
			name: "граничащие интервалы пересечением не считаются",
			bookings: []*domain.Booking{
				{StartTime: "08:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
				{StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
			},
			want: []types.TimeString{"09:00", "10:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterBookedSlots(slots, 60, tt.bookings)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterPastSlots(t *testing.T) {
	slots := []types.TimeString{"09:00", "12:00", "18:00"}

	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	got := filterPastSlots(slots, now)

	// Слот ровно на текущей минуте уже начался и недоступен
	assert.Equal(t, []types.TimeString{"18:00"}, got)
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2026, 3, 16, 15, 0, 0, 0, time.UTC)

	assert.True(t, isDateInPast(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, isDateInPast(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, isDateInPast(time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), now))
}
