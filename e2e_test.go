package nodeless_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nodeless "github.com/mmeshcher/nodeless-client"
	"github.com/mmeshcher/nodeless-client/internal/nodelesstest"
)

const testAPIKey = "e2e-api-key"

func newE2E(t *testing.T) (*nodeless.Client, *nodelesstest.Server, context.Context) {
	t.Helper()

	srv := nodelesstest.NewServer(testAPIKey)
	t.Cleanup(srv.Close)

	client, err := nodeless.New(testAPIKey, nodeless.WithBaseURL(srv.URL()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	return client, srv, ctx
}

func mustParseURL(t *testing.T, raw string) *nodeless.URL {
	t.Helper()
	u, err := nodeless.ParseURL(raw)
	require.NoError(t, err)
	return u
}

func TestServerStatus(t *testing.T) {
	client, _, ctx := newE2E(t)

	status, err := client.GetServerStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, status.Code)
}

func TestPaywallLifecycle(t *testing.T) {
	client, _, ctx := newE2E(t)

	created, err := client.CreatePaywall(ctx, nodeless.Paywall{
		Name:  "Helloworld",
		Type:  nodeless.PaywallTypeRedirect,
		Price: 1042,
	})
	require.NoError(t, err)
	assert.Equal(t, "Helloworld", created.Name)
	assert.Equal(t, nodeless.PaywallTypeRedirect, created.Type)
	assert.Equal(t, uint64(1042), created.Price)
	require.NotEmpty(t, created.ID)

	fetched, err := client.GetPaywall(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.ID, fetched.ID)

	paywalls, err := client.GetPaywalls(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, paywalls)

	err = client.UpdatePaywall(ctx, created.ID, nodeless.Paywall{
		Name:  "hiworld",
		Type:  nodeless.PaywallTypeRedirect,
		Price: 2042,
	})
	require.NoError(t, err)

	// Обновление не возвращает тело, результат виден только повторным чтением.
	updated, err := client.GetPaywall(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "hiworld", updated.Name)
	assert.Equal(t, uint64(2042), updated.Price)

	require.NoError(t, client.DeletePaywall(ctx, created.ID))

	gone, err := client.GetPaywall(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStoreInvoiceScenario(t *testing.T) {
	client, srv, ctx := newE2E(t)

	stores, err := client.GetStores(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, stores)

	store, err := client.GetStore(ctx, srv.StoreID())
	require.NoError(t, err)
	assert.Equal(t, srv.StoreID(), store.ID)

	invoice, err := client.CreateStoreInvoice(ctx, srv.StoreID(), nodeless.InvoiceRequest{
		Amount:      21.21,
		Currency:    "USD",
		BuyerEmail:  "hi@nodeless.io",
		RedirectURL: *mustParseURL(t, "https://nodeless.io"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, invoice.ID)

	fetched, err := client.GetStoreInvoice(ctx, srv.StoreID(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi@nodeless.io", fetched.BuyerEmail)
	assert.Equal(t, "https://nodeless.io", fetched.RedirectURL.String())
	assert.Nil(t, fetched.Metadata)

	status, err := client.GetStoreInvoiceStatus(ctx, srv.StoreID(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, nodeless.InvoiceStatusNew, status)
}

func TestTransactionScenario(t *testing.T) {
	client, _, ctx := newE2E(t)

	all, err := client.GetTransactions(ctx, false)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	fees, err := client.GetTransactions(ctx, true)
	require.NoError(t, err)
	for _, tx := range fees {
		assert.True(t, tx.IsFee)
	}

	tx, err := client.GetTransaction(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].ID, tx.ID)
}

func TestPaywallRequestScenario(t *testing.T) {
	client, _, ctx := newE2E(t)

	paywall, err := client.CreatePaywall(ctx, nodeless.Paywall{
		Name:  "gated",
		Type:  nodeless.PaywallTypeContent,
		Price: 500,
	})
	require.NoError(t, err)

	request, err := client.CreatePaywallRequest(ctx, paywall.ID)
	require.NoError(t, err)
	require.NotEmpty(t, request.ID)
	assert.Equal(t, uint64(500), request.SatsAmount)

	fetched, err := client.GetPaywallRequest(ctx, paywall.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, fetched.ID)

	status, err := client.GetPaywallRequestStatus(ctx, paywall.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", status)
}

func TestWebhookScenario(t *testing.T) {
	client, srv, ctx := newE2E(t)

	created, err := client.CreateStoreWebhook(ctx, srv.StoreID(), nodeless.CreateWebhook{
		Type:   nodeless.WebhookTypeStore,
		URL:    *mustParseURL(t, "https://nodeless.io"),
		Events: []nodeless.WebhookEvent{nodeless.WebhookEventNew},
		Secret: "dont-tell-anyone",
		Status: nodeless.WebhookStatusInactive,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Status)
	assert.Equal(t, nodeless.WebhookStatusInactive, *created.Status)

	hooks, err := client.GetStoreWebhooks(ctx, srv.StoreID())
	require.NoError(t, err)
	require.Len(t, hooks, 1)

	updated, err := client.UpdateStoreWebhook(ctx, srv.StoreID(), created.ID, nodeless.CreateWebhook{
		Type:   nodeless.WebhookTypeStore,
		URL:    *mustParseURL(t, "https://utxo.one"),
		Events: []nodeless.WebhookEvent{nodeless.WebhookEventNew},
		Secret: "dont-tell-anyone",
		Status: nodeless.WebhookStatusActive,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.URL)

	fetched, err := client.GetStoreWebhook(ctx, srv.StoreID(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.URL)
	assert.Equal(t, "https://utxo.one", fetched.URL.String())
	require.NotNil(t, fetched.Status)
	assert.Equal(t, nodeless.WebhookStatusActive, *fetched.Status)

	require.NoError(t, client.DeleteStoreWebhook(ctx, srv.StoreID(), created.ID))

	remaining, err := client.GetStoreWebhooks(ctx, srv.StoreID())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPaywallWebhookScenario(t *testing.T) {
	client, _, ctx := newE2E(t)

	paywall, err := client.CreatePaywall(ctx, nodeless.Paywall{
		Name:  "gated",
		Type:  nodeless.PaywallTypeDownload,
		Price: 300,
	})
	require.NoError(t, err)

	created, err := client.CreatePaywallWebhook(ctx, paywall.ID, nodeless.CreateWebhook{
		Type:   nodeless.WebhookTypePaywall,
		URL:    *mustParseURL(t, "https://nodeless.io"),
		Events: []nodeless.WebhookEvent{nodeless.WebhookEventNew, nodeless.WebhookEventPaid},
		Secret: "dont-tell-anyone",
		Status: nodeless.WebhookStatusInactive,
	})
	require.NoError(t, err)

	fetched, err := client.GetPaywallWebhook(ctx, paywall.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	hooks, err := client.GetPaywallWebhooks(ctx, paywall.ID)
	require.NoError(t, err)
	assert.Len(t, hooks, 1)

	require.NoError(t, client.DeletePaywallWebhook(ctx, paywall.ID, created.ID))
}

func TestDeleteWebhookIdempotent(t *testing.T) {
	client, srv, ctx := newE2E(t)

	// Удаление несуществующего вебхука завершается успешно: ошибку
	// удаления клиент не возвращает.
	require.NoError(t, client.DeleteStoreWebhook(ctx, srv.StoreID(), "no-such-webhook"))
	require.NoError(t, client.DeletePaywallWebhook(ctx, "no-such-paywall", "no-such-webhook"))
}
