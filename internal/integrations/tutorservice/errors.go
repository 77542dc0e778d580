package tutorservice

import "errors"

var (
	// ErrTutorNotFound возвращается, когда репетитор не найден
	ErrTutorNotFound = errors.New("tutorservice client: tutor not found")

	// ErrServiceUnavailable возвращается, когда сервис репетиторов недоступен
	ErrServiceUnavailable = errors.New("tutorservice client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("tutorservice client: internal error")
)
