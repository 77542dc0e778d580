package create_payment_order

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/service/payments/models"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
