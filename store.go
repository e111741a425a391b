package nodeless

import "context"

// Store описывает магазин продавца. Со стороны клиента магазин доступен
// только для чтения: эндпоинтов изменения магазина в API нет.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       *URL      `json:"url,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// InvoiceStatus описывает статус счёта. Перечисление открытое: неизвестные
// значения сохраняются дословно для совместимости с новыми статусами сервера.
type InvoiceStatus string

const (
	InvoiceStatusNew     InvoiceStatus = "new"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusExpired InvoiceStatus = "expired"
)

// Known сообщает, известен ли статус этой версии клиента.
func (s InvoiceStatus) Known() bool {
	switch s {
	case InvoiceStatusNew, InvoiceStatusPaid, InvoiceStatusExpired:
		return true
	}
	return false
}

// InvoiceRequest содержит параметры создания счёта. Поля, назначаемые
// сервером, здесь намеренно отсутствуют.
type InvoiceRequest struct {
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	BuyerEmail  string            `json:"buyerEmail"`
	RedirectURL URL               `json:"redirectUrl"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// QrCodes содержит QR-коды для оплаты счёта.
type QrCodes struct {
	Unified   string `json:"unified"`
	Onchain   string `json:"onchain"`
	Lightning string `json:"lightning"`
}

// Invoice описывает счёт магазина. Статус меняется только на стороне сервера
// и наблюдается через GetStoreInvoiceStatus.
type Invoice struct {
	ID               string            `json:"id,omitempty"`
	CheckoutLink     *URL              `json:"checkoutLink,omitempty"`
	SatsAmount       uint64            `json:"satsAmount"`
	Status           InvoiceStatus     `json:"status"`
	BuyerEmail       string            `json:"buyerEmail"`
	RedirectURL      URL               `json:"redirectUrl"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        Timestamp         `json:"createdAt"`
	PaidAt           *Timestamp        `json:"paidAt,omitempty"`
	OnchainAddress   string            `json:"onchainAddress"`
	LightningInvoice string            `json:"lightningInvoice"`
	Store            Store             `json:"store"`
	QrCodes          QrCodes           `json:"qrCodes"`
}

// GetStores возвращает все магазины, доступные по ключу API.
func (c *Client) GetStores(ctx context.Context) ([]Store, error) {
	body, err := c.get(ctx, c.endpoint("store"))
	if err != nil {
		return nil, err
	}

	var stores []Store
	if err := decodeData(body, "stores", &stores); err != nil {
		return nil, err
	}

	return stores, nil
}

// GetStore возвращает магазин по идентификатору.
func (c *Client) GetStore(ctx context.Context, storeID string) (*Store, error) {
	body, err := c.get(ctx, c.endpoint("store", storeID))
	if err != nil {
		return nil, err
	}

	var store Store
	if err := decodeData(body, "store", &store); err != nil {
		return nil, err
	}

	return &store, nil
}

// CreateStoreInvoice создаёт счёт в указанном магазине. Идентификатор
// и статус назначает сервер.
func (c *Client) CreateStoreInvoice(ctx context.Context, storeID string, invoice InvoiceRequest) (*Invoice, error) {
	body, err := c.post(ctx, c.endpoint("store", storeID, "invoice"), invoice)
	if err != nil {
		return nil, err
	}

	var created Invoice
	if err := decodeData(body, "invoice", &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// GetStoreInvoice возвращает счёт магазина по идентификатору.
func (c *Client) GetStoreInvoice(ctx context.Context, storeID, invoiceID string) (*Invoice, error) {
	body, err := c.get(ctx, c.endpoint("store", storeID, "invoice", invoiceID))
	if err != nil {
		return nil, err
	}

	var invoice Invoice
	if err := decodeData(body, "invoice", &invoice); err != nil {
		return nil, err
	}

	return &invoice, nil
}

// GetStoreInvoiceStatus возвращает текущий статус счёта.
// Эндпоинт дешёвый и предназначен для опроса.
func (c *Client) GetStoreInvoiceStatus(ctx context.Context, storeID, invoiceID string) (InvoiceStatus, error) {
	body, err := c.get(ctx, c.endpoint("store", storeID, "invoice", invoiceID, "status"))
	if err != nil {
		return "", err
	}

	var status InvoiceStatus
	if err := decodeStatus(body, &status); err != nil {
		return "", err
	}

	return status, nil
}
