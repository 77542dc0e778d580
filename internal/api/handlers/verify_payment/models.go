package verify_payment

// VerifyPaymentRequest - подтверждение оплаты данными, которые вернул платежный шлюз.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (r *VerifyPaymentRequest) Validate() bool {
	return r.OrderID != "" && r.PaymentID != "" && r.Signature != ""
}
