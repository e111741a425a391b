package nodeless

import (
	"encoding/json"
	"fmt"
)

// WebhookEvent описывает событие, по которому срабатывает вебхук.
// Перечисление закрытое.
type WebhookEvent string

const (
	WebhookEventNew                 WebhookEvent = "new"
	WebhookEventPendingConfirmation WebhookEvent = "pending_confirmation"
	WebhookEventPaid                WebhookEvent = "paid"
	WebhookEventExpired             WebhookEvent = "expired"
	WebhookEventCancelled           WebhookEvent = "cancelled"
	WebhookEventUnderpaid           WebhookEvent = "underpaid"
	WebhookEventOverpaid            WebhookEvent = "overpaid"
	WebhookEventInFlight            WebhookEvent = "in_flight"
)

// UnmarshalJSON проверяет принадлежность значения фиксированному набору событий.
func (e *WebhookEvent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, err)
	}

	switch WebhookEvent(s) {
	case WebhookEventNew, WebhookEventPendingConfirmation, WebhookEventPaid,
		WebhookEventExpired, WebhookEventCancelled, WebhookEventUnderpaid,
		WebhookEventOverpaid, WebhookEventInFlight:
		*e = WebhookEvent(s)
		return nil
	}

	return fmt.Errorf("%w: webhook event %q", ErrUnknownVariant, s)
}

// WebhookType описывает тип владельца вебхука. Перечисление закрытое.
type WebhookType string

const (
	WebhookTypeStore        WebhookType = "store"
	WebhookTypeDonationPage WebhookType = "donation_page"
	WebhookTypePaywall      WebhookType = "paywall"
	WebhookTypeInbox        WebhookType = "inbox"
)

// UnmarshalJSON проверяет принадлежность значения фиксированному набору типов.
func (t *WebhookType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, err)
	}

	switch WebhookType(s) {
	case WebhookTypeStore, WebhookTypeDonationPage, WebhookTypePaywall, WebhookTypeInbox:
		*t = WebhookType(s)
		return nil
	}

	return fmt.Errorf("%w: webhook type %q", ErrUnknownVariant, s)
}

// WebhookStatus описывает состояние вебхука. Перечисление закрытое.
type WebhookStatus string

const (
	WebhookStatusActive   WebhookStatus = "active"
	WebhookStatusInactive WebhookStatus = "inactive"
)

// UnmarshalJSON проверяет принадлежность значения фиксированному набору состояний.
func (s *WebhookStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, err)
	}

	switch WebhookStatus(raw) {
	case WebhookStatusActive, WebhookStatusInactive:
		*s = WebhookStatus(raw)
		return nil
	}

	return fmt.Errorf("%w: webhook status %q", ErrUnknownVariant, raw)
}

// CreateWebhook содержит параметры создания или обновления вебхука.
// В отличие от Webhook, все поля здесь обязательны.
type CreateWebhook struct {
	Type   WebhookType    `json:"type"`
	URL    URL            `json:"url"`
	Events []WebhookEvent `json:"events"`
	Secret string         `json:"secret"`
	Status WebhookStatus  `json:"status"`
}

// Webhook описывает вебхук в ответах сервера. Все поля необязательны:
// сервер может возвращать частично заполненные записи.
type Webhook struct {
	ID             string         `json:"id,omitempty"`
	Secret         string         `json:"secret,omitempty"`
	Status         *WebhookStatus `json:"status,omitempty"`
	Events         []WebhookEvent `json:"events,omitempty"`
	URL            *URL           `json:"url,omitempty"`
	CreatedAt      *Timestamp     `json:"createdAt,omitempty"`
	LastDeliveryAt *Timestamp     `json:"lastDeliveryAt,omitempty"`
}
