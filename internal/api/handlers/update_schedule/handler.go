package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/schedule"
	"github.com/m04kA/SMC-TutoringService/internal/service/schedule/models"
)

const (
	msgInvalidTutorID     = "некорректный ID тьютора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidTimeRange   = "некорректный временной интервал в расписании"
	msgOverlappingRanges  = "интервалы расписания пересекаются"
	msgInvalidInput       = "некорректные данные расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tutors/{tutorId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /tutors/{tutorId}/schedule - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /tutors/{tutorId}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tutors/{tutorId}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.UpdateScheduleRequest{
		UserID:              userID,
		TutorID:             tutorID,
		SlotDurationMinutes: req.SlotDurationMinutes,
		Schedule:            req.Schedule,
	}

	result, err := h.service.UpdateSchedule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /tutors/{tutorId}/schedule - Access denied: tutor_id=%d, user_id=%d",
				tutorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			h.logger.Warn("PUT /tutors/{tutorId}/schedule - Invalid time range: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrOverlappingRanges):
			h.logger.Warn("PUT /tutors/{tutorId}/schedule - Overlapping ranges: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondBadRequest(w, msgOverlappingRanges)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /tutors/{tutorId}/schedule - Invalid input: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /tutors/{tutorId}/schedule - Failed to update schedule: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tutors/{tutorId}/schedule - Schedule updated successfully: tutor_id=%d", tutorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
