package dismiss_payment

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/service/payments/models"
)

type PaymentService interface {
	DismissPayment(ctx context.Context, req *models.DismissPaymentRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
