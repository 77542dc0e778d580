package update_schedule

import "github.com/m04kA/SMC-TutoringService/internal/service/schedule/models"

// UpdateScheduleRequest тело запроса на замену недельного расписания
type UpdateScheduleRequest struct {
	SlotDurationMinutes *int                       `json:"slotDurationMinutes,omitempty"`
	Schedule            models.WeekSchedulePayload `json:"schedule"`
}
