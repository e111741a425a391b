// Package main запускает CLI-клиент платёжного API nodeless.io.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	nodeless "github.com/mmeshcher/nodeless-client"
	"github.com/mmeshcher/nodeless-client/internal/config"
	"github.com/mmeshcher/nodeless-client/internal/nodelesstest"
)

const fakeAPIKey = "fake-api-key"

func main() {
	app := &cli.App{
		Name:  "nodeless",
		Usage: "CLI-клиент платёжного API nodeless.io",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", Aliases: []string{"k"}, Usage: "ключ API"},
			&cli.StringFlag{Name: "base-url", Aliases: []string{"b"}, Usage: "базовый адрес API"},
			&cli.StringFlag{Name: "store-id", Aliases: []string{"s"}, Usage: "идентификатор магазина"},
			&cli.BoolFlag{Name: "dev", Aliases: []string{"D"}, Usage: "режим разработки"},
			&cli.BoolFlag{Name: "fake", Usage: "работать с тестовым сервером в памяти вместо реального API"},
		},
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "проверить состояние сервера",
				Action: runStatus,
			},
			{
				Name:   "stores",
				Usage:  "показать магазины, доступные по ключу API",
				Action: runStores,
			},
			{
				Name:   "smoke",
				Usage:  "прогнать сквозной сценарий по всем эндпоинтам",
				Action: runSmoke,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type env struct {
	client  *nodeless.Client
	cfg     *config.Config
	logger  *zap.Logger
	cleanup func()
}

// setup собирает окружение команды: конфигурацию из .env и переменных
// окружения, перекрытую флагами, логгер и клиент API.
func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("store-id") {
		cfg.StoreID = c.String("store-id")
	}
	if c.IsSet("dev") {
		cfg.Development = c.Bool("dev")
	}

	var logger *zap.Logger
	if cfg.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	cleanup := func() {
		_ = logger.Sync()
	}

	if c.Bool("fake") {
		srv := nodelesstest.NewServer(fakeAPIKey)
		cfg.APIKey = fakeAPIKey
		cfg.BaseURL = srv.URL()
		cfg.StoreID = srv.StoreID()
		cleanup = func() {
			srv.Close()
			_ = logger.Sync()
		}
	}

	if cfg.APIKey == "" {
		cleanup()
		return nil, errors.New("требуется ключ API: NODELESS_API_KEY либо флаг --api-key")
	}

	opts := []nodeless.Option{nodeless.WithLogger(logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, nodeless.WithBaseURL(cfg.BaseURL))
	}

	client, err := nodeless.New(cfg.APIKey, opts...)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &env{client: client, cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func runStatus(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.cleanup()

	status, err := e.client.GetServerStatus(c.Context)
	if err != nil {
		return fmt.Errorf("server status: %w", err)
	}

	e.logger.Info("server status",
		zap.Int("code", status.Code),
		zap.String("status", status.Status),
		zap.String("node", status.Node),
	)
	return nil
}

func runStores(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.cleanup()

	stores, err := e.client.GetStores(c.Context)
	if err != nil {
		return fmt.Errorf("get stores: %w", err)
	}

	for _, store := range stores {
		e.logger.Info("store",
			zap.String("id", store.ID),
			zap.String("name", store.Name),
			zap.Time("created_at", store.CreatedAt.Time()),
		)
	}
	return nil
}

// runSmoke последовательно прогоняет все операции клиента: статус сервера,
// магазины, счета, транзакции, пейволы, запросы оплаты и вебхуки обеих
// областей. Создаваемые ресурсы удаляются в конце прогона.
func runSmoke(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.cleanup()

	if e.cfg.StoreID == "" {
		return errors.New("требуется идентификатор магазина: NODELESS_STORE_ID либо флаг --store-id")
	}

	ctx := c.Context
	storeID := e.cfg.StoreID

	if err := smokeStatus(ctx, e); err != nil {
		return err
	}
	invoiceID, err := smokeStoreInvoice(ctx, e, storeID)
	if err != nil {
		return err
	}
	if err := smokeInvoiceStatus(ctx, e, storeID, invoiceID); err != nil {
		return err
	}
	if err := smokeTransactions(ctx, e); err != nil {
		return err
	}

	paywallID, err := smokePaywall(ctx, e)
	if err != nil {
		return err
	}
	if err := smokePaywallRequest(ctx, e, paywallID); err != nil {
		return err
	}
	if err := smokeWebhooks(ctx, e, storeID, paywallID); err != nil {
		return err
	}

	if err := e.client.DeletePaywall(ctx, paywallID); err != nil {
		return fmt.Errorf("delete paywall: %w", err)
	}

	e.logger.Info("smoke passed")
	return nil
}

func smokeStatus(ctx context.Context, e *env) error {
	status, err := e.client.GetServerStatus(ctx)
	if err != nil {
		return fmt.Errorf("server status: %w", err)
	}
	if status.Code != 200 {
		return fmt.Errorf("server status code: %d", status.Code)
	}
	e.logger.Info("server status ok", zap.String("node", status.Node))
	return nil
}

func smokeStoreInvoice(ctx context.Context, e *env, storeID string) (string, error) {
	stores, err := e.client.GetStores(ctx)
	if err != nil {
		return "", fmt.Errorf("get stores: %w", err)
	}
	if len(stores) == 0 {
		return "", errors.New("get stores: empty list")
	}

	store, err := e.client.GetStore(ctx, storeID)
	if err != nil {
		return "", fmt.Errorf("get store: %w", err)
	}
	e.logger.Info("store ok", zap.String("name", store.Name))

	redirect, err := nodeless.ParseURL("https://nodeless.io")
	if err != nil {
		return "", err
	}

	invoice, err := e.client.CreateStoreInvoice(ctx, storeID, nodeless.InvoiceRequest{
		Amount:      21.21,
		Currency:    "USD",
		BuyerEmail:  "hi@nodeless.io",
		RedirectURL: *redirect,
	})
	if err != nil {
		return "", fmt.Errorf("create invoice: %w", err)
	}
	if invoice.BuyerEmail != "hi@nodeless.io" {
		return "", fmt.Errorf("create invoice: buyer email %q", invoice.BuyerEmail)
	}

	fetched, err := e.client.GetStoreInvoice(ctx, storeID, invoice.ID)
	if err != nil {
		return "", fmt.Errorf("get invoice: %w", err)
	}
	e.logger.Info("invoice ok",
		zap.String("id", fetched.ID),
		zap.Uint64("sats", fetched.SatsAmount),
	)
	return invoice.ID, nil
}

func smokeInvoiceStatus(ctx context.Context, e *env, storeID, invoiceID string) error {
	status, err := e.client.GetStoreInvoiceStatus(ctx, storeID, invoiceID)
	if err != nil {
		return fmt.Errorf("invoice status: %w", err)
	}
	if status != nodeless.InvoiceStatusNew {
		return fmt.Errorf("invoice status: %q", status)
	}
	return nil
}

func smokeTransactions(ctx context.Context, e *env) error {
	transactions, err := e.client.GetTransactions(ctx, false)
	if err != nil {
		return fmt.Errorf("get transactions: %w", err)
	}
	if len(transactions) == 0 {
		e.logger.Info("transactions empty, skip get by id")
		return nil
	}

	transaction, err := e.client.GetTransaction(ctx, transactions[0].ID)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	e.logger.Info("transaction ok", zap.String("id", transaction.ID))
	return nil
}

func smokePaywall(ctx context.Context, e *env) (string, error) {
	created, err := e.client.CreatePaywall(ctx, nodeless.Paywall{
		Name:  "Helloworld",
		Type:  nodeless.PaywallTypeRedirect,
		Price: 1042,
	})
	if err != nil {
		return "", fmt.Errorf("create paywall: %w", err)
	}
	if created.Name != "Helloworld" || created.Price != 1042 {
		return "", fmt.Errorf("create paywall: unexpected %q/%d", created.Name, created.Price)
	}

	fetched, err := e.client.GetPaywall(ctx, created.ID)
	if err != nil {
		return "", fmt.Errorf("get paywall: %w", err)
	}
	if fetched == nil || fetched.ID != created.ID {
		return "", errors.New("get paywall: paywall lost")
	}

	paywalls, err := e.client.GetPaywalls(ctx)
	if err != nil {
		return "", fmt.Errorf("get paywalls: %w", err)
	}
	if len(paywalls) == 0 {
		return "", errors.New("get paywalls: empty list")
	}

	err = e.client.UpdatePaywall(ctx, created.ID, nodeless.Paywall{
		Name:  "hiworld",
		Type:  nodeless.PaywallTypeRedirect,
		Price: 2042,
	})
	if err != nil {
		return "", fmt.Errorf("update paywall: %w", err)
	}

	updated, err := e.client.GetPaywall(ctx, created.ID)
	if err != nil {
		return "", fmt.Errorf("get updated paywall: %w", err)
	}
	if updated == nil || updated.Name != "hiworld" {
		return "", errors.New("update paywall: change not visible")
	}

	e.logger.Info("paywall ok", zap.String("id", created.ID))
	return created.ID, nil
}

func smokePaywallRequest(ctx context.Context, e *env, paywallID string) error {
	request, err := e.client.CreatePaywallRequest(ctx, paywallID)
	if err != nil {
		return fmt.Errorf("create paywall request: %w", err)
	}

	fetched, err := e.client.GetPaywallRequest(ctx, paywallID, request.ID)
	if err != nil {
		return fmt.Errorf("get paywall request: %w", err)
	}
	if fetched.ID != request.ID {
		return errors.New("get paywall request: id mismatch")
	}

	status, err := e.client.GetPaywallRequestStatus(ctx, paywallID, request.ID)
	if err != nil {
		return fmt.Errorf("paywall request status: %w", err)
	}

	e.logger.Info("paywall request ok",
		zap.String("id", request.ID),
		zap.String("status", status),
	)
	return nil
}

func smokeWebhooks(ctx context.Context, e *env, storeID, paywallID string) error {
	target, err := nodeless.ParseURL("https://nodeless.io")
	if err != nil {
		return err
	}
	updatedTarget, err := nodeless.ParseURL("https://utxo.one")
	if err != nil {
		return err
	}

	storeHook, err := e.client.CreateStoreWebhook(ctx, storeID, nodeless.CreateWebhook{
		Type:   nodeless.WebhookTypeStore,
		URL:    *target,
		Events: []nodeless.WebhookEvent{nodeless.WebhookEventNew},
		Secret: "smoke-secret",
		Status: nodeless.WebhookStatusInactive,
	})
	if err != nil {
		return fmt.Errorf("create store webhook: %w", err)
	}

	updated, err := e.client.UpdateStoreWebhook(ctx, storeID, storeHook.ID, nodeless.CreateWebhook{
		Type:   nodeless.WebhookTypeStore,
		URL:    *updatedTarget,
		Events: []nodeless.WebhookEvent{nodeless.WebhookEventNew},
		Secret: "smoke-secret",
		Status: nodeless.WebhookStatusActive,
	})
	if err != nil {
		return fmt.Errorf("update store webhook: %w", err)
	}
	if updated.URL == nil || updated.URL.String() != updatedTarget.String() {
		return errors.New("update store webhook: url not applied")
	}
	if err := e.client.DeleteStoreWebhook(ctx, storeID, storeHook.ID); err != nil {
		return fmt.Errorf("delete store webhook: %w", err)
	}

	paywallHook, err := e.client.CreatePaywallWebhook(ctx, paywallID, nodeless.CreateWebhook{
		Type:   nodeless.WebhookTypePaywall,
		URL:    *target,
		Events: []nodeless.WebhookEvent{nodeless.WebhookEventNew},
		Secret: "smoke-secret",
		Status: nodeless.WebhookStatusInactive,
	})
	if err != nil {
		return fmt.Errorf("create paywall webhook: %w", err)
	}

	hooks, err := e.client.GetPaywallWebhooks(ctx, paywallID)
	if err != nil {
		return fmt.Errorf("get paywall webhooks: %w", err)
	}
	if len(hooks) == 0 {
		return errors.New("get paywall webhooks: empty list")
	}
	if err := e.client.DeletePaywallWebhook(ctx, paywallID, paywallHook.ID); err != nil {
		return fmt.Errorf("delete paywall webhook: %w", err)
	}

	e.logger.Info("webhooks ok")
	return nil
}
