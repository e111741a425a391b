package nodeless

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampMarshal(t *testing.T) {
	data, err := json.Marshal(Timestamp(1700000000))
	require.NoError(t, err)
	assert.Equal(t, `"2023-11-14T22:13:20.000000Z"`, string(data))
}

func TestTimestampRoundTrip(t *testing.T) {
	original := Timestamp(1700000000)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Timestamp
	}{
		{
			name: "whole seconds",
			in:   `"2023-11-14T22:13:20.000000Z"`,
			want: 1700000000,
		},
		{
			name: "subsecond precision truncated",
			in:   `"2023-11-14T22:13:20.123456Z"`,
			want: 1700000000,
		},
		{
			name: "no fraction",
			in:   `"2023-11-14T22:13:20Z"`,
			want: 1700000000,
		},
		{
			name: "offset converted to utc",
			in:   `"2023-11-15T00:13:20.123456+02:00"`,
			want: 1700000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.Equal(t, tt.want, ts)
		})
	}
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	err := json.Unmarshal([]byte(`"yesterday"`), &ts)
	require.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestTimestampOptionalNull(t *testing.T) {
	var holder struct {
		PaidAt *Timestamp `json:"paidAt,omitempty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"paidAt":null}`), &holder))
	assert.Nil(t, holder.PaidAt)
}

func TestURLRoundTrip(t *testing.T) {
	original, err := ParseURL("https://nodeless.io/pay?x=1")
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"https://nodeless.io/pay?x=1"`, string(data))

	var decoded URL
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.String(), decoded.String())
}

func TestParseURLInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "missing scheme", in: "://nodeless.io"},
		{name: "relative", in: "pay/now"},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.in)
			require.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestURLUnmarshalInvalid(t *testing.T) {
	var u URL
	err := json.Unmarshal([]byte(`"not a url"`), &u)
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestInvoiceStatusOpenEnum(t *testing.T) {
	tests := []struct {
		in    string
		want  InvoiceStatus
		known bool
	}{
		{in: `"new"`, want: InvoiceStatusNew, known: true},
		{in: `"paid"`, want: InvoiceStatusPaid, known: true},
		{in: `"expired"`, want: InvoiceStatusExpired, known: true},
		{in: `"refunded"`, want: InvoiceStatus("refunded"), known: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var status InvoiceStatus
			require.NoError(t, json.Unmarshal([]byte(tt.in), &status))
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.known, status.Known())

			// Неизвестный статус обязан пережить обратную сериализацию без изменений.
			data, err := json.Marshal(status)
			require.NoError(t, err)
			assert.Equal(t, tt.in, string(data))
		})
	}
}

func TestTransactionOpenEnums(t *testing.T) {
	var tType TransactableType
	require.NoError(t, json.Unmarshal([]byte(`"Payout"`), &tType))
	assert.Equal(t, TransactableType("Payout"), tType)
	assert.False(t, tType.Known())

	var tStatus TransactionStatus
	require.NoError(t, json.Unmarshal([]byte(`"settled"`), &tStatus))
	assert.Equal(t, TransactionStatusSettled, tStatus)
	assert.True(t, tStatus.Known())
}

func TestClosedEnumsRejectUnknown(t *testing.T) {
	t.Run("paywall type", func(t *testing.T) {
		var pt PaywallType
		err := json.Unmarshal([]byte(`"subscription"`), &pt)
		require.ErrorIs(t, err, ErrUnknownVariant)
	})

	t.Run("webhook type", func(t *testing.T) {
		var wt WebhookType
		err := json.Unmarshal([]byte(`"account"`), &wt)
		require.ErrorIs(t, err, ErrUnknownVariant)
	})

	t.Run("webhook event", func(t *testing.T) {
		var we WebhookEvent
		err := json.Unmarshal([]byte(`"refunded"`), &we)
		require.ErrorIs(t, err, ErrUnknownVariant)
	})

	t.Run("webhook status", func(t *testing.T) {
		var ws WebhookStatus
		err := json.Unmarshal([]byte(`"paused"`), &ws)
		require.ErrorIs(t, err, ErrUnknownVariant)
	})
}

func TestClosedEnumsAcceptKnown(t *testing.T) {
	var pt PaywallType
	require.NoError(t, json.Unmarshal([]byte(`"wp_article"`), &pt))
	assert.Equal(t, PaywallTypeWPArticle, pt)

	var we WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(`"pending_confirmation"`), &we))
	assert.Equal(t, WebhookEventPendingConfirmation, we)
}
