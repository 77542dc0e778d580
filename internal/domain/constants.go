package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
	DefaultCurrency            = "INR"
	DefaultPlatformFeeRate     = 0.05

	// GroupRateFraction доля индивидуальной ставки для групповых сессий,
	// когда групповая ставка не задана явно
	GroupRateFraction = 0.6
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240

	MaxSubjectLength            = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500

	// MinOrderAmount минимальная сумма заказа во внешнем шлюзе
	MinOrderAmount = 1.0
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, удерживающих слот
// Используются при проверке пересечений и генерации слотов
var ActiveStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
}
