package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// Request модель запроса календаря тьютора на месяц
type Request struct {
	UserID      int64              // ID пользователя (для логирования, не влияет на результат)
	TutorID     int64              // ID тьютора
	Year        int                // Год
	Month       time.Month         // Месяц (1-12)
	SessionType domain.SessionType // Тип занятия (не влияет на слоты, попадает в лог)
}

// Response модель ответа с календарем на месяц
type Response struct {
	TutorID             int64
	Year                int
	Month               time.Month
	SlotDurationMinutes int
	Days                []domain.CalendarDay
}
