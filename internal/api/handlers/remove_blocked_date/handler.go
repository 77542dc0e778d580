package remove_blocked_date

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/schedule"
	"github.com/m04kA/SMC-TutoringService/internal/service/schedule/models"
)

const (
	msgInvalidTutorID = "некорректный ID тьютора"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgForbidden      = "доступ запрещен"
	msgNotFound       = "блокировка даты не найдена"
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

// Handle DELETE /api/v1/tutors/{tutorId}/blocked-dates/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /tutors/{tutorId}/blocked-dates/{date} - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /tutors/{tutorId}/blocked-dates/{date} - Invalid date %q: %v", vars["date"], err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /tutors/{tutorId}/blocked-dates/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq := &models.RemoveBlockedDateRequest{
		UserID:  userID,
		TutorID: tutorID,
		Date:    date,
	}

	if err := h.service.RemoveBlockedDate(r.Context(), serviceReq); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /tutors/{tutorId}/blocked-dates/{date} - Access denied: tutor_id=%d, user_id=%d",
				tutorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrBlockedDateNotFound):
			h.logger.Warn("DELETE /tutors/{tutorId}/blocked-dates/{date} - Blocked date not found: tutor_id=%d, date=%s",
				tutorID, vars["date"])
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /tutors/{tutorId}/blocked-dates/{date} - Failed to unblock date: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /tutors/{tutorId}/blocked-dates/{date} - Date unblocked successfully: tutor_id=%d, date=%s",
		tutorID, vars["date"])
	w.WriteHeader(http.StatusNoContent)
}
