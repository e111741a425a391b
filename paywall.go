package nodeless

import (
	"context"
	"encoding/json"
	"fmt"
)

// PaywallType описывает тип пейвола. Перечисление закрытое: неизвестное
// значение считается ошибкой декодирования.
type PaywallType string

const (
	PaywallTypeContent   PaywallType = "content"
	PaywallTypeDownload  PaywallType = "download"
	PaywallTypeRedirect  PaywallType = "redirect"
	PaywallTypeWPArticle PaywallType = "wp_article"
)

// UnmarshalJSON проверяет принадлежность значения фиксированному набору типов.
func (t *PaywallType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, err)
	}

	switch PaywallType(s) {
	case PaywallTypeContent, PaywallTypeDownload, PaywallTypeRedirect, PaywallTypeWPArticle:
		*t = PaywallType(s)
		return nil
	}

	return fmt.Errorf("%w: paywall type %q", ErrUnknownVariant, s)
}

// Paywall описывает пейвол. Одна и та же структура служит телом запросов
// создания и обновления и формой ответа: при записи идентификатор всегда
// опускается, метки времени — только когда отсутствуют.
type Paywall struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name,omitempty"`
	Type      PaywallType       `json:"type"`
	Price     uint64            `json:"price"`
	Settings  map[string]string `json:"settings,omitempty"`
	CreatedAt *Timestamp        `json:"created_at,omitempty"`
	UpdatedAt *Timestamp        `json:"updated_at,omitempty"`
}

// PaywallRequest описывает одну попытку оплаты пейвола. После создания
// сервер меняет только статус и момент оплаты.
type PaywallRequest struct {
	ID               string     `json:"id"`
	SatsAmount       uint64     `json:"satsAmount"`
	Status           string     `json:"status"`
	Metadata         []string   `json:"metadata,omitempty"`
	CreatedAt        Timestamp  `json:"createdAt"`
	PaidAt           *Timestamp `json:"paidAt,omitempty"`
	OnchainAddress   string     `json:"onchainAddress"`
	LightningInvoice string     `json:"lightningInvoice"`
	Paywall          *Paywall   `json:"paywall,omitempty"`
}

// CreatePaywall создаёт пейвол. Идентификатор назначает сервер.
func (c *Client) CreatePaywall(ctx context.Context, paywall Paywall) (*Paywall, error) {
	body, err := c.post(ctx, c.endpoint("paywall"), paywall)
	if err != nil {
		return nil, err
	}

	var created Paywall
	if err := decodeData(body, "paywall", &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// GetPaywalls возвращает все пейволы, доступные по ключу API.
func (c *Client) GetPaywalls(ctx context.Context) ([]Paywall, error) {
	body, err := c.get(ctx, c.endpoint("paywall"))
	if err != nil {
		return nil, err
	}

	var paywalls []Paywall
	if err := decodeData(body, "paywalls", &paywalls); err != nil {
		return nil, err
	}

	return paywalls, nil
}

// GetPaywall возвращает пейвол по идентификатору.
// Если сервер вернул null вместо пейвола, результатом будет nil без ошибки.
func (c *Client) GetPaywall(ctx context.Context, paywallID string) (*Paywall, error) {
	body, err := c.get(ctx, c.endpoint("paywall", paywallID))
	if err != nil {
		return nil, err
	}

	data, err := unwrapData(body)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var paywall Paywall
	if err := json.Unmarshal(data, &paywall); err != nil {
		return nil, fmt.Errorf("decode paywall: %w", err)
	}

	return &paywall, nil
}

// UpdatePaywall обновляет пейвол. Тело ответа сервер не возвращает,
// результат изменений наблюдается повторным запросом GetPaywall.
func (c *Client) UpdatePaywall(ctx context.Context, paywallID string, paywall Paywall) error {
	_, err := c.put(ctx, c.endpoint("paywall", paywallID), paywall)
	return err
}

// DeletePaywall удаляет пейвол.
func (c *Client) DeletePaywall(ctx context.Context, paywallID string) error {
	_, err := c.delete(ctx, c.endpoint("paywall", paywallID))
	return err
}

// CreatePaywallRequest создаёт запрос оплаты пейвола. Тело запроса
// не требуется, сервер ожидает JSON-литерал null.
func (c *Client) CreatePaywallRequest(ctx context.Context, paywallID string) (*PaywallRequest, error) {
	body, err := c.post(ctx, c.endpoint("paywall", paywallID, "request"), nil)
	if err != nil {
		return nil, err
	}

	var request PaywallRequest
	if err := decodeData(body, "paywall request", &request); err != nil {
		return nil, err
	}

	return &request, nil
}

// GetPaywallRequest возвращает запрос оплаты пейвола по идентификатору.
func (c *Client) GetPaywallRequest(ctx context.Context, paywallID, requestID string) (*PaywallRequest, error) {
	body, err := c.get(ctx, c.endpoint("paywall", paywallID, "request", requestID))
	if err != nil {
		return nil, err
	}

	var request PaywallRequest
	if err := decodeData(body, "paywall request", &request); err != nil {
		return nil, err
	}

	return &request, nil
}

// GetPaywallRequestStatus возвращает статус запроса оплаты пейвола.
// Статус здесь — произвольная строка, набор значений сервер не фиксирует.
func (c *Client) GetPaywallRequestStatus(ctx context.Context, paywallID, requestID string) (string, error) {
	body, err := c.get(ctx, c.endpoint("paywall", paywallID, "request", requestID, "status"))
	if err != nil {
		return "", err
	}

	var status string
	if err := decodeStatus(body, &status); err != nil {
		return "", err
	}

	return status, nil
}
