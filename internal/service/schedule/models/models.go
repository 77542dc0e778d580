package models

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// Request модели

// TimeRangePayload рабочий интервал одного дня
type TimeRangePayload struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "12:00"
}

// WeekSchedulePayload недельное расписание по дням
type WeekSchedulePayload struct {
	Monday    []TimeRangePayload `json:"monday,omitempty"`
	Tuesday   []TimeRangePayload `json:"tuesday,omitempty"`
	Wednesday []TimeRangePayload `json:"wednesday,omitempty"`
	Thursday  []TimeRangePayload `json:"thursday,omitempty"`
	Friday    []TimeRangePayload `json:"friday,omitempty"`
	Saturday  []TimeRangePayload `json:"saturday,omitempty"`
	Sunday    []TimeRangePayload `json:"sunday,omitempty"`
}

// UpdateScheduleRequest запрос на замену недельного расписания
type UpdateScheduleRequest struct {
	UserID              int64               `json:"userId"`
	TutorID             int64               `json:"tutorId"`
	SlotDurationMinutes *int                `json:"slotDurationMinutes,omitempty"`
	Schedule            WeekSchedulePayload `json:"schedule"`
}

// AddBlockedDateRequest запрос на блокировку даты
type AddBlockedDateRequest struct {
	UserID  int64     `json:"userId"`
	TutorID int64     `json:"tutorId"`
	Date    time.Time `json:"date"`
	Reason  *string   `json:"reason,omitempty"`
}

// RemoveBlockedDateRequest запрос на снятие блокировки даты
type RemoveBlockedDateRequest struct {
	UserID  int64     `json:"userId"`
	TutorID int64     `json:"tutorId"`
	Date    time.Time `json:"date"`
}

// Response модели

// ScheduleResponse расписание тьютора
type ScheduleResponse struct {
	TutorID             int64               `json:"tutorId"`
	SlotDurationMinutes int                 `json:"slotDurationMinutes"`
	Schedule            WeekSchedulePayload `json:"schedule"`
}

// BlockedDateResponse блокировка даты
type BlockedDateResponse struct {
	ID      int64   `json:"id"`
	TutorID int64   `json:"tutorId"`
	Date    string  `json:"date"` // "2026-03-15"
	Reason  *string `json:"reason,omitempty"`
}

// BlockedDateListResponse список блокировок
type BlockedDateListResponse struct {
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
}

// Методы конвертации

// ToDomainSchedule конвертирует payload в domain расписание
// Ошибки формата времени всплывают из types.TimeString
func (p *WeekSchedulePayload) ToDomainSchedule() (domain.WeeklySchedule, error) {
	byDay := map[time.Weekday][]TimeRangePayload{
		time.Monday:    p.Monday,
		time.Tuesday:   p.Tuesday,
		time.Wednesday: p.Wednesday,
		time.Thursday:  p.Thursday,
		time.Friday:    p.Friday,
		time.Saturday:  p.Saturday,
		time.Sunday:    p.Sunday,
	}

	schedule := make(domain.WeeklySchedule)
	for day, ranges := range byDay {
		for _, rng := range ranges {
			start, err := types.NewTimeStringFromString(rng.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := types.NewTimeStringFromString(rng.EndTime)
			if err != nil {
				return nil, err
			}
			schedule[day] = append(schedule[day], domain.TimeRange{
				StartTime: start,
				EndTime:   end,
			})
		}
	}

	return schedule, nil
}

// FromDomainSchedule конвертирует domain расписание в payload
func FromDomainSchedule(schedule domain.WeeklySchedule) WeekSchedulePayload {
	payload := WeekSchedulePayload{}

	convert := func(ranges []domain.TimeRange) []TimeRangePayload {
		if len(ranges) == 0 {
			return nil
		}
		out := make([]TimeRangePayload, len(ranges))
		for i, rng := range ranges {
			out[i] = TimeRangePayload{
				StartTime: rng.StartTime.String(),
				EndTime:   rng.EndTime.String(),
			}
		}
		return out
	}

	payload.Monday = convert(schedule[time.Monday])
	payload.Tuesday = convert(schedule[time.Tuesday])
	payload.Wednesday = convert(schedule[time.Wednesday])
	payload.Thursday = convert(schedule[time.Thursday])
	payload.Friday = convert(schedule[time.Friday])
	payload.Saturday = convert(schedule[time.Saturday])
	payload.Sunday = convert(schedule[time.Sunday])

	return payload
}

// FromDomainBlockedDate конвертирует domain блокировку в DTO
func FromDomainBlockedDate(bd *domain.BlockedDate) *BlockedDateResponse {
	if bd == nil {
		return nil
	}

	return &BlockedDateResponse{
		ID:      bd.ID,
		TutorID: bd.TutorID,
		Date:    bd.Date.Format(domain.DateFormat),
		Reason:  bd.Reason,
	}
}

// FromDomainBlockedDateList конвертирует список блокировок в DTO
func FromDomainBlockedDateList(blocked []*domain.BlockedDate) *BlockedDateListResponse {
	resp := &BlockedDateListResponse{
		BlockedDates: make([]BlockedDateResponse, 0, len(blocked)),
	}

	for _, bd := range blocked {
		if dto := FromDomainBlockedDate(bd); dto != nil {
			resp.BlockedDates = append(resp.BlockedDates, *dto)
		}
	}

	return resp
}
