package get_calendar

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// generateDaySlots генерирует отсортированный список возможных начал слотов
// по рабочим интервалам дня. Интервалы могут пересекаться - совпадающие
// начала слотов не дублируются
func generateDaySlots(ranges []domain.TimeRange, slotDuration int) ([]types.TimeString, error) {
	seen := make(map[int]struct{})

	for _, rng := range ranges {
		// Пустые и инвертированные интервалы не порождают слотов
		if !rng.IsValid() {
			continue
		}

		start, err := rng.StartTime.Minutes()
		if err != nil {
			return nil, err
		}
		end, err := rng.EndTime.Minutes()
		if err != nil {
			return nil, err
		}

		// Слот должен целиком помещаться в интервал: неполный хвост отбрасывается
		for t := start; t+slotDuration <= end; t += slotDuration {
			seen[t] = struct{}{}
		}
	}

	minutes := make([]int, 0, len(seen))
	for t := range seen {
		minutes = append(minutes, t)
	}
	sort.Ints(minutes)

	slots := make([]types.TimeString, 0, len(minutes))
	for _, t := range minutes {
		slot, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// filterBookedSlots убирает слоты, пересекающиеся с активными бронированиями
// Граничащие интервалы пересечением не считаются: бронирование 10:00-11:00
// не закрывает слот 11:00
func filterBookedSlots(slots []types.TimeString, slotDuration int, bookings []*domain.Booking) []types.TimeString {
	available := make([]types.TimeString, 0, len(slots))

	for _, slotStart := range slots {
		slotEnd, err := slotStart.AddMinutes(slotDuration)
		if err != nil {
			continue
		}

		if !hasOverlappingBooking(slotStart, slotEnd, bookings) {
			available = append(available, slotStart)
		}
	}

	return available
}

// hasOverlappingBooking проверяет, пересекается ли слот с активным бронированием
// Строгие неравенства: интервалы пересекаются, только если начало бронирования
// СТРОГО раньше конца слота И конец бронирования СТРОГО позже начала слота
func hasOverlappingBooking(slotStart, slotEnd types.TimeString, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingStart := booking.StartTime
		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			continue
		}

		if bookingStart.IsBefore(slotEnd) && bookingEnd.IsAfter(slotStart) {
			return true
		}
	}

	return false
}

// filterPastSlots убирает слоты, которые уже начались
// Применяется только к сегодняшнему дню
func filterPastSlots(slots []types.TimeString, now time.Time) []types.TimeString {
	currentTime := types.NewTimeString(now)

	available := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if currentTime.IsBefore(slot) {
			available = append(available, slot)
		}
	}

	return available
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
