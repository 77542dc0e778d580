package reserve_booking

import (
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// isValidSlotStart проверяет, что время начала совпадает с одним из слотов,
// порождаемых расписанием тьютора. Клиентский выбор слота не принимается
// на веру - сетка слотов выводится заново на сервере
func isValidSlotStart(ranges []domain.TimeRange, slotDuration int, startTime types.TimeString) (bool, error) {
	target, err := startTime.Minutes()
	if err != nil {
		return false, err
	}

	for _, rng := range ranges {
		if !rng.IsValid() {
			continue
		}

		start, err := rng.StartTime.Minutes()
		if err != nil {
			return false, err
		}
		end, err := rng.EndTime.Minutes()
		if err != nil {
			return false, err
		}

		// Слот должен целиком помещаться в интервал
		for t := start; t+slotDuration <= end; t += slotDuration {
			if t == target {
				return true, nil
			}
		}
	}

	return false, nil
}

// hasOverlappingBooking проверяет, пересекается ли слот с активным бронированием
// Строгие неравенства: граничащие интервалы пересечением не считаются
func hasOverlappingBooking(slotStart types.TimeString, slotDuration int, bookings []*domain.Booking) (bool, error) {
	slotEnd, err := slotStart.AddMinutes(slotDuration)
	if err != nil {
		return false, err
	}

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
			return true, nil
		}
	}

	return false, nil
}
