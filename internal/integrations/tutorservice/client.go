package tutorservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом репетиторов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса репетиторов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTutor получает профиль репетитора
// Профиль нужен для расчета стоимости занятия (часовая ставка, валюта)
func (c *Client) GetTutor(ctx context.Context, tutorID int64) (*Tutor, error) {
	url := fmt.Sprintf("%s/internal/tutors/%d", c.baseURL, tutorID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("TutorService unavailable for tutor_id=%d: %v", tutorID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrTutorNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrServiceUnavailable, resp.StatusCode, string(body))
	}

	var tutor Tutor
	if err := json.NewDecoder(resp.Body).Decode(&tutor); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrServiceUnavailable, err)
	}

	return &tutor, nil
}
