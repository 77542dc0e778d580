package create_payment_order

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
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
	msgInvalidState     = "оплата для этого бронирования недоступна"
	msgAmountTooSmall   = "сумма бронирования меньше минимальной для оплаты, слот освобожден"
	msgGatewayFailed    = "не удалось создать платежный ордер, слот освобожден"
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

// Handle POST /api/v1/bookings/{bookingId}/payment/order
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/order - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment/order - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq := &models.CreateOrderRequest{
		UserID:    userID,
		BookingID: bookingID,
	}

	order, err := h.service.CreateOrder(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment/order - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment/order - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/payment/order - Invalid state: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, payments.ErrAmountTooSmall):
			h.logger.Warn("POST /bookings/{id}/payment/order - Amount below minimum: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgAmountTooSmall)

		case errors.Is(err, payments.ErrGatewayFailed):
			h.logger.Error("POST /bookings/{id}/payment/order - Gateway failure: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayFailed)

		default:
			h.logger.Error("POST /bookings/{id}/payment/order - Failed to create order: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/order - Order created successfully: booking_id=%d, order_id=%s",
		bookingID, order.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, order)
}
