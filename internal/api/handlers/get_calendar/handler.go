package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	getCalendar "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
)

const (
	msgInvalidTutorID = "некорректный ID тьютора"
	msgInvalidYear    = "некорректный год"
	msgInvalidMonth   = "некорректный месяц"
	msgInvalidInput   = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tutors/{tutorId}/calendar?year=2026&month=3&sessionType=private
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tutors/{tutorId}/calendar - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.logger.Warn("GET /tutors/{tutorId}/calendar - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.logger.Warn("GET /tutors/{tutorId}/calendar - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	// Эндпоинт публичный: userID нужен только для логирования
	userID, _ := middleware.GetUserID(r.Context())

	useCaseReq := &getCalendar.Request{
		UserID:      userID,
		TutorID:     tutorID,
		Year:        year,
		Month:       time.Month(month),
		SessionType: domain.SessionType(r.URL.Query().Get("sessionType")),
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrInvalidInput):
			h.logger.Warn("GET /tutors/{tutorId}/calendar - Invalid input: tutor_id=%d, error=%v", tutorID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /tutors/{tutorId}/calendar - Failed to build calendar: tutor_id=%d, error=%v",
				tutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tutors/{tutorId}/calendar - Calendar built successfully: tutor_id=%d, period=%d-%02d",
		tutorID, year, month)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
