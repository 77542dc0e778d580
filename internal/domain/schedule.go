package domain

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// TimeRange рабочий интервал в рамках одного дня недели
type TimeRange struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// IsValid returns true if the range has positive length
// Пустые и инвертированные интервалы не порождают слотов
func (r TimeRange) IsValid() bool {
	return r.StartTime.IsBefore(r.EndTime)
}

// WeeklySchedule недельное расписание доступности тьютора
// Инвариант: интервалы внутри дня отсортированы и не пересекаются
// (контролируется при записи, см. service/schedule)
type WeeklySchedule map[time.Weekday][]TimeRange

// RangesFor возвращает интервалы для дня недели указанной даты
func (s WeeklySchedule) RangesFor(date time.Time) []TimeRange {
	return s[date.Weekday()]
}

// BlockedDate дата, в которую тьютор недоступен (отпуск, праздник)
// Перекрывает недельное расписание целиком: слотов в этот день нет
type BlockedDate struct {
	ID        int64
	TutorID   int64
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// TutorAvailability настройки доступности тьютора
type TutorAvailability struct {
	TutorID             int64
	SlotDurationMinutes int
	Schedule            WeeklySchedule
}
