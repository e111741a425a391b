package nodeless

import (
	"context"

	"go.uber.org/zap"
)

// GetPaywallWebhooks возвращает все вебхуки пейвола.
func (c *Client) GetPaywallWebhooks(ctx context.Context, paywallID string) ([]Webhook, error) {
	body, err := c.get(ctx, c.endpoint("paywall", paywallID, "webhook"))
	if err != nil {
		return nil, err
	}

	var webhooks []Webhook
	if err := decodeData(body, "webhooks", &webhooks); err != nil {
		return nil, err
	}

	return webhooks, nil
}

// GetPaywallWebhook возвращает вебхук пейвола по идентификатору.
func (c *Client) GetPaywallWebhook(ctx context.Context, paywallID, webhookID string) (*Webhook, error) {
	body, err := c.get(ctx, c.endpoint("paywall", paywallID, "webhook", webhookID))
	if err != nil {
		return nil, err
	}

	var webhook Webhook
	if err := decodeData(body, "webhook", &webhook); err != nil {
		return nil, err
	}

	return &webhook, nil
}

// CreatePaywallWebhook создаёт вебхук пейвола.
func (c *Client) CreatePaywallWebhook(ctx context.Context, paywallID string, webhook CreateWebhook) (*Webhook, error) {
	body, err := c.post(ctx, c.endpoint("paywall", paywallID, "webhook"), webhook)
	if err != nil {
		return nil, err
	}

	var created Webhook
	if err := decodeData(body, "webhook", &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdatePaywallWebhook обновляет вебхук пейвола и возвращает его новое состояние.
func (c *Client) UpdatePaywallWebhook(ctx context.Context, paywallID, webhookID string, webhook CreateWebhook) (*Webhook, error) {
	body, err := c.put(ctx, c.endpoint("paywall", paywallID, "webhook", webhookID), webhook)
	if err != nil {
		return nil, err
	}

	var updated Webhook
	if err := decodeData(body, "webhook", &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeletePaywallWebhook удаляет вебхук пейвола. Сбой запроса намеренно
// игнорируется, как и при удалении вебхука магазина.
func (c *Client) DeletePaywallWebhook(ctx context.Context, paywallID, webhookID string) error {
	if _, err := c.delete(ctx, c.endpoint("paywall", paywallID, "webhook", webhookID)); err != nil {
		c.logger.Debug("delete paywall webhook", zap.Error(err))
	}
	return nil
}
