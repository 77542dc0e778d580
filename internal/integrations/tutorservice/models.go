package tutorservice

// Tutor профиль репетитора из сервиса репетиторов
// GroupHourlyRate может отсутствовать - тогда ставка групповых занятий
// вычисляется от индивидуальной
type Tutor struct {
	ID              int64    `json:"id"`
	DisplayName     string   `json:"display_name"`
	Subjects        []string `json:"subjects"`
	HourlyRate      float64  `json:"hourly_rate"`
	GroupHourlyRate *float64 `json:"group_hourly_rate,omitempty"`
	Currency        string   `json:"currency"`
	IsActive        bool     `json:"is_active"`
}
