package add_blocked_date

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
	msgInvalidTutorID     = "некорректный ID тьютора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgAlreadyBlocked     = "дата уже заблокирована"
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

// Handle POST /api/v1/tutors/{tutorId}/blocked-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddBlockedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	serviceReq := &models.AddBlockedDateRequest{
		UserID:  userID,
		TutorID: tutorID,
		Date:    date,
		Reason:  req.Reason,
	}

	result, err := h.service.AddBlockedDate(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Access denied: tutor_id=%d, user_id=%d",
				tutorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrDateAlreadyBlocked):
			h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Date already blocked: tutor_id=%d, date=%s",
				tutorID, req.Date)
			handlers.RespondConflict(w, msgAlreadyBlocked)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /tutors/{tutorId}/blocked-dates - Invalid input: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /tutors/{tutorId}/blocked-dates - Failed to block date: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tutors/{tutorId}/blocked-dates - Date blocked successfully: tutor_id=%d, date=%s",
		tutorID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
