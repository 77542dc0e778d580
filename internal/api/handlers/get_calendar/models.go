package get_calendar

import (
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	getCalendar "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
)

// CalendarDayResponse состояние одного дня месяца
type CalendarDayResponse struct {
	Date        string   `json:"date"` // "2026-03-15"
	IsAvailable bool     `json:"isAvailable"`
	IsBlocked   bool     `json:"isBlocked"`
	BlockReason *string  `json:"blockReason,omitempty"`
	SlotCount   int      `json:"slotCount"`
	TimeSlots   []string `json:"timeSlots"`
}

// CalendarResponse календарь тьютора на месяц
type CalendarResponse struct {
	TutorID             int64                 `json:"tutorId"`
	Year                int                   `json:"year"`
	Month               int                   `json:"month"`
	SlotDurationMinutes int                   `json:"slotDurationMinutes"`
	Days                []CalendarDayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	days := make([]CalendarDayResponse, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]string, len(day.TimeSlots))
		for j, slot := range day.TimeSlots {
			slots[j] = slot.String()
		}

		days[i] = CalendarDayResponse{
			Date:        day.Date.Format(domain.DateFormat),
			IsAvailable: day.IsAvailable,
			IsBlocked:   day.IsBlocked,
			BlockReason: day.BlockReason,
			SlotCount:   day.SlotCount,
			TimeSlots:   slots,
		}
	}

	return &CalendarResponse{
		TutorID:             resp.TutorID,
		Year:                resp.Year,
		Month:               int(resp.Month),
		SlotDurationMinutes: resp.SlotDurationMinutes,
		Days:                days,
	}
}
