package verify_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/payments"
	"github.com/m04kA/SMC-TutoringService/internal/service/payments/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgAttemptNotFound    = "платежная попытка не найдена"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidState       = "платеж не может быть подтвержден в текущем статусе"
	msgOrderMismatch      = "ордер не соответствует платежной попытке"
	msgVerificationFailed = "платеж не прошел проверку, бронирование отменено"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if !req.Validate() {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Missing required fields: booking_id=%d", bookingID)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.VerifyPaymentRequest{
		UserID:    userID,
		BookingID: bookingID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}

	result, err := h.service.VerifyPayment(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAttemptNotFound):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Attempt not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgAttemptNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrOrderMismatch):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Order mismatch: booking_id=%d, order_id=%s",
				bookingID, req.OrderID)
			handlers.RespondConflict(w, msgOrderMismatch)

		case errors.Is(err, payments.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Invalid state: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, payments.ErrVerificationFailed):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Signature verification failed: booking_id=%d, payment_id=%s",
				bookingID, req.PaymentID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgVerificationFailed)

		default:
			h.logger.Error("POST /bookings/{id}/payment/verify - Failed to verify payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/verify - Payment verified successfully: booking_id=%d, payment_id=%s",
		bookingID, req.PaymentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
