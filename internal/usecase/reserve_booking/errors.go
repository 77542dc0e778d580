package reserve_booking

import "errors"

var (
	// ErrTutorNotFound возвращается, когда тьютор не найден
	ErrTutorNotFound = errors.New("tutor not found")

	// ErrTutorInactive возвращается, когда тьютор не принимает бронирования
	ErrTutorInactive = errors.New("tutor is not accepting bookings")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateBlocked возвращается, когда дата заблокирована тьютором
	ErrDateBlocked = errors.New("date is blocked by tutor")

	// ErrInvalidSlot возвращается, когда запрошенное время не совпадает
	// ни с одним слотом из расписания тьютора
	ErrInvalidSlot = errors.New("requested time does not match any available slot")

	// ErrSlotConflict возвращается, когда слот уже занят другим бронированием
	ErrSlotConflict = errors.New("slot is already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
