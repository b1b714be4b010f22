// Package downstream предоставляет клиент внешнего сервиса учёта, которому
// шлюз передаёт проверенные команды.
package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mmeshcher/sms-gateway/internal/middleware"
)

// ErrUnavailable возвращается, если команду не удалось передать внешнему сервису.
var ErrUnavailable = errors.New("downstream unavailable")

// Route — путь внешнего сервиса, выбираемый по виду команды.
type Route string

const (
	RouteLog     Route = "/log"
	RouteProcess Route = "/process"
	RouteQuery   Route = "/query"
)

// DefaultTimeout ограничивает время одного обращения к внешнему сервису.
const DefaultTimeout = 10 * time.Second

// Processed содержит счётчики записей, обработанных по команде PROCESS.
type Processed struct {
	Total   int `json:"total"`
	Mileage int `json:"mileage"`
	Hours   int `json:"hours"`
}

// Response описывает ответ внешнего сервиса.
type Response struct {
	Processed *Processed `json:"processed,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// Client инкапсулирует HTTP-взаимодействие с внешним сервисом.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Response]
}

// NewClient создаёт клиент внешнего сервиса по указанному адресу.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
			Name:        "downstream",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Forward отправляет payload в формате JSON на указанный маршрут. Выполняется
// ровно одна попытка; любая неудача оборачивает ErrUnavailable.
func (c *Client) Forward(ctx context.Context, route Route, payload any) (*Response, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("%w: client not configured", ErrUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.post(ctx, route, body)
	})
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return resp, nil
}

func (c *Client) post(ctx context.Context, route Route, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+string(route), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id, ok := middleware.GetMessageIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}
