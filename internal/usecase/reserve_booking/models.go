package reserve_booking

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// Request модель запроса на резервирование слота
type Request struct {
	StudentID   int64              // ID студента
	TutorID     int64              // ID тьютора
	Date        time.Time          // Дата занятия (без времени)
	StartTime   types.TimeString   // Время начала слота (например, "10:00")
	SessionType domain.SessionType // Тип занятия: индивидуальное или групповое
	Subject     string             // Предмет занятия
	Notes       *string            // Заметки студента
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	StudentID       int64
	TutorID         int64
	ScheduledDate   time.Time
	StartTime       types.TimeString
	DurationMinutes int
	SessionType     string
	Subject         string
	Status          string
	Currency        string
	BasePrice       float64
	PlatformFee     float64
	TotalPrice      float64
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
