package domain

// Доменные события бронирований
// Доставляются в сервис уведомлений fire-and-forget: сбой доставки
// не откатывает состояние бронирования

// BookingConfirmedEvent бронирование подтверждено после успешной оплаты
type BookingConfirmedEvent struct {
	BookingID int64 `json:"bookingId"`
	StudentID int64 `json:"studentId"`
	TutorID   int64 `json:"tutorId"`
}

// BookingCancelledEvent бронирование отменено
type BookingCancelledEvent struct {
	BookingID int64  `json:"bookingId"`
	Reason    string `json:"reason"`
}
