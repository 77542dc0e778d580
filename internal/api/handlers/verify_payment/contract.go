package verify_payment

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/service/payments/models"
)

type PaymentService interface {
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
