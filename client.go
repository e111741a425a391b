// Package nodeless предоставляет типизированный клиент платёжного API nodeless.io.
package nodeless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL задаёт адрес боевого API nodeless.io.
const DefaultBaseURL = "https://nodeless.io"

// Client инкапсулирует HTTP-взаимодействие с API nodeless.io.
// Экземпляр неизменяем после создания и безопасен для конкурентного использования.
type Client struct {
	apiKey     string
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option настраивает создаваемый клиент.
type Option func(*Client) error

// WithBaseURL заменяет базовый адрес API.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		parsed, err := url.Parse(raw)
		if err != nil || !parsed.IsAbs() {
			return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
		}
		c.baseURL = parsed
		return nil
	}
}

// WithHTTPClient заменяет используемый HTTP-клиент.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

// WithLogger задаёт логгер для отладочных записей о выполняемых запросах.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// New создаёт клиент API nodeless.io с указанным ключом.
// Сетевых обращений при создании не выполняется, ключ не проверяется.
func New(apiKey string, opts ...Option) (*Client, error) {
	base, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, DefaultBaseURL)
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// endpoint строит адрес запроса из базового URL и экранированных сегментов пути.
func (c *Client) endpoint(parts ...string) *url.URL {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, "api", "v1")
	for _, p := range parts {
		segments = append(segments, url.PathEscape(p))
	}
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	return c.do(ctx, http.MethodGet, u, nil)
}

func (c *Client) post(ctx context.Context, u *url.URL, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, u, payload)
}

func (c *Client) put(ctx context.Context, u *url.URL, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPut, u, payload)
}

func (c *Client) delete(ctx context.Context, u *url.URL) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, u, nil)
}

// do выполняет HTTP-запрос с заголовками авторизации и возвращает тело ответа.
// Тело для POST и PUT передаётся всегда: отсутствующие данные сериализуются
// в JSON-литерал null, как того ожидает сервер.
func (c *Client) do(ctx context.Context, method string, u *url.URL, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("nodeless request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return body, nil
}

// unwrapData извлекает полезную нагрузку из конверта {"data": ...}.
// Для отсутствующего или null-значения возвращается nil.
func unwrapData(body []byte) (json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	if string(envelope.Data) == "null" {
		return nil, nil
	}
	return envelope.Data, nil
}

// decodeData извлекает полезную нагрузку из конверта и декодирует её в out.
func decodeData(body []byte, what string, out any) error {
	data, err := unwrapData(body)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: missing data", ErrInvalidResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", what, err)
	}
	return nil
}

// decodeStatus декодирует поле "status" из ответов статусных эндпоинтов.
func decodeStatus(body []byte, out any) error {
	var envelope struct {
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	if envelope.Status == nil {
		return fmt.Errorf("%w: missing status", ErrInvalidResponse)
	}
	if err := json.Unmarshal(envelope.Status, out); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	return nil
}

// ServerStatusResponse описывает ответ эндпоинта проверки состояния сервера.
type ServerStatusResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Node   string `json:"node"`
}

// GetServerStatus возвращает состояние сервера nodeless.io.
func (c *Client) GetServerStatus(ctx context.Context) (*ServerStatusResponse, error) {
	body, err := c.get(ctx, c.endpoint("status"))
	if err != nil {
		return nil, err
	}

	var status ServerStatusResponse
	if err := decodeData(body, "server status", &status); err != nil {
		return nil, err
	}

	return &status, nil
}
