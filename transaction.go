package nodeless

import "context"

// TransactableType описывает тип сущности, породившей транзакцию.
// Перечисление открытое: неизвестные значения сохраняются дословно.
type TransactableType string

// TransactableTypeDonation соответствует пожертвованию.
const TransactableTypeDonation TransactableType = "Donation"

// Known сообщает, известен ли тип этой версии клиента.
func (t TransactableType) Known() bool {
	return t == TransactableTypeDonation
}

// TransactionStatus описывает статус транзакции. Перечисление открытое.
type TransactionStatus string

// TransactionStatusSettled соответствует завершённой транзакции.
const TransactionStatusSettled TransactionStatus = "settled"

// Known сообщает, известен ли статус этой версии клиента.
func (s TransactionStatus) Known() bool {
	return s == TransactionStatusSettled
}

// Transactable описывает запись, к которой относится транзакция,
// например пожертвование.
type Transactable struct {
	ID             uint64            `json:"id"`
	UUID           string            `json:"uuid"`
	DonationPageID *uint64           `json:"donation_page_id,omitempty"`
	Amount         uint64            `json:"amount"`
	AmountPaid     uint64            `json:"amount_paid"`
	Name           string            `json:"name,omitempty"`
	Message        string            `json:"message,omitempty"`
	Status         string            `json:"status"`
	Type           string            `json:"type"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      Timestamp         `json:"created_at"`
	UpdatedAt      *Timestamp        `json:"updated_at,omitempty"`
	PaidAt         *Timestamp        `json:"paid_at,omitempty"`
}

// Transaction описывает запись реестра транзакций. Записи доступны
// только для чтения.
type Transaction struct {
	ID               string            `json:"id"`
	TransactableType TransactableType  `json:"transactable_type"`
	Transactable     Transactable      `json:"transactable"`
	Amount           float64           `json:"amount"`
	Type             string            `json:"type"`
	Status           TransactionStatus `json:"status"`
	CreatedAt        Timestamp         `json:"created_at"`
	UpdatedAt        Timestamp         `json:"updated_at"`
	IsFee            bool              `json:"is_fee"`
}

// GetTransaction возвращает транзакцию по идентификатору.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	body, err := c.get(ctx, c.endpoint("transaction", transactionID))
	if err != nil {
		return nil, err
	}

	var transaction Transaction
	if err := decodeData(body, "transaction", &transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

// GetTransactions возвращает транзакции. Флаг isFee ограничивает выборку
// комиссионными записями через параметр запроса isFee=1.
func (c *Client) GetTransactions(ctx context.Context, isFee bool) ([]Transaction, error) {
	u := c.endpoint("transaction")
	if isFee {
		u.RawQuery = "isFee=1"
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var transactions []Transaction
	if err := decodeData(body, "transactions", &transactions); err != nil {
		return nil, err
	}

	return transactions, nil
}
