package domain

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// CalendarDay состояние одного дня месяца для отображения календаря
// Вычисляется на чтении из расписания, блокировок и бронирований; не хранится
type CalendarDay struct {
	Date        time.Time
	IsAvailable bool
	IsBlocked   bool
	BlockReason *string
	SlotCount   int
	TimeSlots   []types.TimeString
}

// HasSlot returns true if the day contains a bookable slot at start
func (d *CalendarDay) HasSlot(start types.TimeString) bool {
	for _, s := range d.TimeSlots {
		if s == start {
			return true
		}
	}
	return false
}
