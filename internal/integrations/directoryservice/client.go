package directoryservice

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
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с DirectoryService (мастер-данные:
// клиенты, операторы, услуги). Только чтение.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента DirectoryService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetClient получает клиента по ID
func (c *Client) GetClient(ctx context.Context, clientID int64) (*ClientInfo, error) {
	var client ClientInfo
	url := fmt.Sprintf("%s/internal/clients/%d", c.baseURL, clientID)
	if err := c.get(ctx, url, &client, ErrClientNotFound); err != nil {
		return nil, err
	}
	return &client, nil
}

// GetOperator получает оператора по ID
func (c *Client) GetOperator(ctx context.Context, operatorID int64) (*Operator, error) {
	var operator Operator
	url := fmt.Sprintf("%s/internal/operators/%d", c.baseURL, operatorID)
	if err := c.get(ctx, url, &operator, ErrOperatorNotFound); err != nil {
		return nil, err
	}
	return &operator, nil
}

// GetService получает услугу по ID
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	var service Service
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)
	if err := c.get(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return &service, nil
}

// get выполняет GET запрос и декодирует ответ в out.
// notFound возвращается при статусе 404.
func (c *Client) get(ctx context.Context, url string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
