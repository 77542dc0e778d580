package get_blocked_dates

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

const (
	msgInvalidTutorID = "некорректный ID тьютора"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// Период по умолчанию, если границы не заданы в запросе
const defaultPeriodDays = 365

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

// Handle GET /api/v1/tutors/{tutorId}/blocked-dates?startDate=&endDate=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tutors/{tutorId}/blocked-dates - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	query := r.URL.Query()

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := query.Get("startDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /tutors/{tutorId}/blocked-dates - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		from = parsed
	}

	to := from.AddDate(0, 0, defaultPeriodDays)
	if raw := query.Get("endDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /tutors/{tutorId}/blocked-dates - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		to = parsed
	}

	result, err := h.service.GetBlockedDates(r.Context(), tutorID, from, to)
	if err != nil {
		h.logger.Error("GET /tutors/{tutorId}/blocked-dates - Failed to get blocked dates: tutor_id=%d, error=%v",
			tutorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tutors/{tutorId}/blocked-dates - Blocked dates retrieved successfully: tutor_id=%d, count=%d",
		tutorID, len(result.BlockedDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
