package get_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
)

const (
	msgInvalidTutorID = "некорректный ID тьютора"
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

// Handle GET /api/v1/tutors/{tutorId}/schedule
// Публичный endpoint: расписание доступно без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tutors/{tutorId}/schedule - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), tutorID)
	if err != nil {
		h.logger.Error("GET /tutors/{tutorId}/schedule - Failed to get schedule: tutor_id=%d, error=%v",
			tutorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tutors/{tutorId}/schedule - Schedule retrieved successfully: tutor_id=%d", tutorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
