package add_blocked_date

// AddBlockedDateRequest тело запроса на блокировку даты
type AddBlockedDateRequest struct {
	Date   string  `json:"date"` // "2026-03-15"
	Reason *string `json:"reason,omitempty"`
}
