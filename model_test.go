package nodeless

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *URL {
	t.Helper()
	u, err := ParseURL(raw)
	require.NoError(t, err)
	return u
}

func TestInvoiceRoundTrip(t *testing.T) {
	paidAt := Timestamp(1700000100)

	tests := []struct {
		name    string
		invoice Invoice
	}{
		{
			name: "all fields",
			invoice: Invoice{
				ID:               "inv-1",
				CheckoutLink:     mustURL(t, "https://nodeless.io/checkout/inv-1"),
				SatsAmount:       21210,
				Status:           InvoiceStatusPaid,
				BuyerEmail:       "hi@nodeless.io",
				RedirectURL:      *mustURL(t, "https://nodeless.io"),
				Metadata:         map[string]string{"order": "42"},
				CreatedAt:        1700000000,
				PaidAt:           &paidAt,
				OnchainAddress:   "bc1qxyz",
				LightningInvoice: "lnbc1xyz",
				Store: Store{
					ID:        "store-1",
					Name:      "Test Store",
					URL:       mustURL(t, "https://store.example"),
					Email:     "store@nodeless.io",
					CreatedAt: 1690000000,
				},
				QrCodes: QrCodes{Unified: "u", Onchain: "o", Lightning: "l"},
			},
		},
		{
			name: "optional fields absent",
			invoice: Invoice{
				SatsAmount:       100,
				Status:           InvoiceStatusNew,
				BuyerEmail:       "hi@nodeless.io",
				RedirectURL:      *mustURL(t, "https://nodeless.io"),
				CreatedAt:        1700000000,
				OnchainAddress:   "bc1qxyz",
				LightningInvoice: "lnbc1xyz",
				Store: Store{
					ID:        "store-1",
					Name:      "Test Store",
					CreatedAt: 1690000000,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.invoice)
			require.NoError(t, err)

			var decoded Invoice
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.invoice, decoded)
		})
	}
}

func TestPaywallWriteShapeOmitsServerFields(t *testing.T) {
	data, err := json.Marshal(Paywall{
		Name:  "Helloworld",
		Type:  PaywallTypeRedirect,
		Price: 1042,
	})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "id")
	assert.NotContains(t, raw, "created_at")
	assert.NotContains(t, raw, "updated_at")
	assert.Contains(t, raw, "type")
	assert.Contains(t, raw, "price")
}

func TestPaywallRoundTrip(t *testing.T) {
	createdAt := Timestamp(1700000000)
	updatedAt := Timestamp(1700000500)

	original := Paywall{
		ID:        "pw-1",
		Name:      "Helloworld",
		Type:      PaywallTypeRedirect,
		Price:     1042,
		Settings:  map[string]string{"redirect": "https://utxo.one"},
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Paywall
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestWebhookReadShapeAllOptional(t *testing.T) {
	// Сервер может вернуть частично заполненный вебхук, это не ошибка.
	var webhook Webhook
	require.NoError(t, json.Unmarshal([]byte(`{}`), &webhook))
	assert.Empty(t, webhook.ID)
	assert.Nil(t, webhook.Status)
	assert.Nil(t, webhook.URL)
	assert.Nil(t, webhook.CreatedAt)
}

func TestWebhookRoundTrip(t *testing.T) {
	createdAt := Timestamp(1700000000)
	status := WebhookStatusActive

	original := Webhook{
		ID:        "wh-1",
		Secret:    "dont-tell",
		Status:    &status,
		Events:    []WebhookEvent{WebhookEventNew, WebhookEventPaid},
		URL:       mustURL(t, "https://utxo.one"),
		CreatedAt: &createdAt,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Webhook
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestTransactionRoundTrip(t *testing.T) {
	original := Transaction{
		ID:               "tx-1",
		TransactableType: TransactableTypeDonation,
		Transactable: Transactable{
			ID:         7,
			UUID:       "uuid-7",
			Amount:     1000,
			AmountPaid: 1000,
			Status:     "paid",
			Type:       "donation",
			CreatedAt:  1700000000,
		},
		Amount:    1000,
		Type:      "onchain",
		Status:    TransactionStatusSettled,
		CreatedAt: 1700000000,
		UpdatedAt: 1700000100,
		IsFee:     false,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
