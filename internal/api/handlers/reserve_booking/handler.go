package reserve_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	reserveBooking "github.com/m04kA/SMC-TutoringService/internal/usecase/reserve_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTutorNotFound      = "тьютор не найден"
	msgTutorInactive      = "тьютор не принимает бронирования"
	msgInvalidDate        = "некорректная дата бронирования"
	msgDateBlocked        = "дата недоступна для бронирования"
	msgInvalidSlot        = "выбранное время не совпадает с расписанием тьютора"
	msgSlotConflict       = "выбранный временной слот уже занят"
	msgInvalidInput       = "некорректные параметры запроса"
)

type Handler struct {
	useCase ReserveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReserveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReserveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(studentID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: student_id=%d, tutor_id=%d", studentID, req.TutorID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, reserveBooking.ErrTutorNotFound):
			h.logger.Warn("POST /bookings - Tutor not found: tutor_id=%d", req.TutorID)
			handlers.RespondNotFound(w, msgTutorNotFound)

		case errors.Is(err, reserveBooking.ErrTutorInactive):
			h.logger.Warn("POST /bookings - Tutor inactive: tutor_id=%d", req.TutorID)
			handlers.RespondError(w, http.StatusConflict, msgTutorInactive)

		case errors.Is(err, reserveBooking.ErrDateBlocked):
			h.logger.Warn("POST /bookings - Date blocked: student_id=%d, tutor_id=%d", studentID, req.TutorID)
			handlers.RespondConflict(w, msgDateBlocked)

		case errors.Is(err, reserveBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: student_id=%d, tutor_id=%d", studentID, req.TutorID)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, reserveBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: student_id=%d, tutor_id=%d", studentID, req.TutorID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, reserveBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: student_id=%d, error=%v", studentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to reserve booking: student_id=%d, tutor_id=%d, error=%v",
				studentID, req.TutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking reserved successfully: booking_id=%d, student_id=%d, tutor_id=%d",
		result.ID, studentID, req.TutorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
