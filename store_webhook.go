package nodeless

import (
	"context"

	"go.uber.org/zap"
)

// GetStoreWebhooks возвращает все вебхуки магазина.
func (c *Client) GetStoreWebhooks(ctx context.Context, storeID string) ([]Webhook, error) {
	body, err := c.get(ctx, c.endpoint("store", storeID, "webhook"))
	if err != nil {
		return nil, err
	}

	var webhooks []Webhook
	if err := decodeData(body, "webhooks", &webhooks); err != nil {
		return nil, err
	}

	return webhooks, nil
}

// GetStoreWebhook возвращает вебхук магазина по идентификатору.
func (c *Client) GetStoreWebhook(ctx context.Context, storeID, webhookID string) (*Webhook, error) {
	body, err := c.get(ctx, c.endpoint("store", storeID, "webhook", webhookID))
	if err != nil {
		return nil, err
	}

	var webhook Webhook
	if err := decodeData(body, "webhook", &webhook); err != nil {
		return nil, err
	}

	return &webhook, nil
}

// CreateStoreWebhook создаёт вебхук магазина.
func (c *Client) CreateStoreWebhook(ctx context.Context, storeID string, webhook CreateWebhook) (*Webhook, error) {
	body, err := c.post(ctx, c.endpoint("store", storeID, "webhook"), webhook)
	if err != nil {
		return nil, err
	}

	var created Webhook
	if err := decodeData(body, "webhook", &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateStoreWebhook обновляет вебхук магазина и возвращает его новое состояние.
func (c *Client) UpdateStoreWebhook(ctx context.Context, storeID, webhookID string, webhook CreateWebhook) (*Webhook, error) {
	body, err := c.put(ctx, c.endpoint("store", storeID, "webhook", webhookID), webhook)
	if err != nil {
		return nil, err
	}

	var updated Webhook
	if err := decodeData(body, "webhook", &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteStoreWebhook удаляет вебхук магазина. Сбой запроса намеренно
// игнорируется: удаление уже удалённого вебхука считается успешным,
// поэтому отличить «уже удалён» от реальной ошибки вызывающий не может.
func (c *Client) DeleteStoreWebhook(ctx context.Context, storeID, webhookID string) error {
	if _, err := c.delete(ctx, c.endpoint("store", storeID, "webhook", webhookID)); err != nil {
		c.logger.Debug("delete store webhook", zap.Error(err))
	}
	return nil
}
