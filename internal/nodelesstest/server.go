// Package nodelesstest содержит in-memory реализацию API nodeless.io,
// используемую в тестах клиента и в режиме прогона без реальных учётных данных.
package nodelesstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	nodeless "github.com/mmeshcher/nodeless-client"
)

type webhookRecord struct {
	parentID string
	webhook  nodeless.Webhook
}

// Server эмулирует API nodeless.io в памяти поверх httptest.
type Server struct {
	apiKey string

	mu           sync.Mutex
	store        nodeless.Store
	invoices     map[string]nodeless.Invoice
	paywalls     map[string]nodeless.Paywall
	requests     map[string]nodeless.PaywallRequest
	webhooks     map[string]webhookRecord
	transactions []nodeless.Transaction

	ts *httptest.Server
}

// NewServer создаёт и запускает тестовый сервер, принимающий указанный ключ API.
// Сервер заранее наполнен одним магазином и двумя транзакциями.
func NewServer(apiKey string) *Server {
	now := nodeless.Timestamp(time.Now().Unix())

	s := &Server{
		apiKey: apiKey,
		store: nodeless.Store{
			ID:        uuid.NewString(),
			Name:      "Test Store",
			Email:     "store@nodeless.io",
			CreatedAt: now,
		},
		invoices: make(map[string]nodeless.Invoice),
		paywalls: make(map[string]nodeless.Paywall),
		requests: make(map[string]nodeless.PaywallRequest),
		webhooks: make(map[string]webhookRecord),
	}

	s.transactions = []nodeless.Transaction{
		{
			ID:               uuid.NewString(),
			TransactableType: nodeless.TransactableTypeDonation,
			Transactable: nodeless.Transactable{
				ID:         1,
				UUID:       uuid.NewString(),
				Amount:     1000,
				AmountPaid: 1000,
				Status:     "paid",
				Type:       "donation",
				CreatedAt:  now,
			},
			Amount:    1000,
			Type:      "onchain",
			Status:    nodeless.TransactionStatusSettled,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:               uuid.NewString(),
			TransactableType: nodeless.TransactableTypeDonation,
			Transactable: nodeless.Transactable{
				ID:         2,
				UUID:       uuid.NewString(),
				Amount:     21,
				AmountPaid: 21,
				Status:     "paid",
				Type:       "donation",
				CreatedAt:  now,
			},
			Amount:    21,
			Type:      "onchain",
			Status:    nodeless.TransactionStatusSettled,
			CreatedAt: now,
			UpdatedAt: now,
			IsFee:     true,
		},
	}

	s.ts = httptest.NewServer(s.router())
	return s
}

// URL возвращает адрес тестового сервера.
func (s *Server) URL() string {
	return s.ts.URL
}

// StoreID возвращает идентификатор предзаполненного магазина.
func (s *Server) StoreID() string {
	return s.store.ID
}

// Close останавливает тестовый сервер.
func (s *Server) Close() {
	s.ts.Close()
}

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.getStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/store", s.getStores)
			r.Get("/store/{storeID}", s.getStore)
			r.Post("/store/{storeID}/invoice", s.createInvoice)
			r.Get("/store/{storeID}/invoice/{invoiceID}", s.getInvoice)
			r.Get("/store/{storeID}/invoice/{invoiceID}/status", s.getInvoiceStatus)

			r.Post("/store/{storeID}/webhook", s.createWebhook("storeID"))
			r.Get("/store/{storeID}/webhook", s.listWebhooks("storeID"))
			r.Get("/store/{storeID}/webhook/{webhookID}", s.getWebhook("storeID"))
			r.Put("/store/{storeID}/webhook/{webhookID}", s.updateWebhook("storeID"))
			r.Delete("/store/{storeID}/webhook/{webhookID}", s.deleteWebhook("storeID"))

			r.Get("/transaction", s.getTransactions)
			r.Get("/transaction/{transactionID}", s.getTransaction)

			r.Post("/paywall", s.createPaywall)
			r.Get("/paywall", s.getPaywalls)
			r.Get("/paywall/{paywallID}", s.getPaywall)
			r.Put("/paywall/{paywallID}", s.updatePaywall)
			r.Delete("/paywall/{paywallID}", s.deletePaywall)

			r.Post("/paywall/{paywallID}/request", s.createPaywallRequest)
			r.Get("/paywall/{paywallID}/request/{requestID}", s.getPaywallRequest)
			r.Get("/paywall/{paywallID}/request/{requestID}/status", s.getPaywallRequestStatus)

			r.Post("/paywall/{paywallID}/webhook", s.createWebhook("paywallID"))
			r.Get("/paywall/{paywallID}/webhook", s.listWebhooks("paywallID"))
			r.Get("/paywall/{paywallID}/webhook/{webhookID}", s.getWebhook("paywallID"))
			r.Put("/paywall/{paywallID}/webhook/{webhookID}", s.updateWebhook("paywallID"))
			r.Delete("/paywall/{paywallID}/webhook/{webhookID}", s.deleteWebhook("paywallID"))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}

// authMiddleware проверяет заголовок Authorization с токеном Bearer.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeData(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": payload})
}

func writeStatus(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": payload})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, nodeless.ServerStatusResponse{
		Code:   200,
		Status: "ok",
		Node:   "nodeless-test",
	})
}

func (s *Server) getStores(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeData(w, http.StatusOK, []nodeless.Store{s.store})
}

func (s *Server) getStore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chi.URLParam(r, "storeID") != s.store.ID {
		writeError(w, http.StatusNotFound, "store not found")
		return
	}
	writeData(w, http.StatusOK, s.store)
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req nodeless.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if chi.URLParam(r, "storeID") != s.store.ID {
		writeError(w, http.StatusNotFound, "store not found")
		return
	}

	invoice := nodeless.Invoice{
		ID:               uuid.NewString(),
		SatsAmount:       uint64(req.Amount * 1000),
		Status:           nodeless.InvoiceStatusNew,
		BuyerEmail:       req.BuyerEmail,
		RedirectURL:      req.RedirectURL,
		Metadata:         req.Metadata,
		CreatedAt:        nodeless.Timestamp(time.Now().Unix()),
		OnchainAddress:   "bc1q" + uuid.NewString()[:8],
		LightningInvoice: "lnbc" + uuid.NewString()[:8],
		Store:            s.store,
		QrCodes: nodeless.QrCodes{
			Unified:   "data:image/png;base64,unified",
			Onchain:   "data:image/png;base64,onchain",
			Lightning: "data:image/png;base64,lightning",
		},
	}
	s.invoices[invoice.ID] = invoice

	writeData(w, http.StatusCreated, invoice)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[chi.URLParam(r, "invoiceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	writeData(w, http.StatusOK, invoice)
}

func (s *Server) getInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[chi.URLParam(r, "invoiceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	writeStatus(w, invoice.Status)
}

func (s *Server) getTransactions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	onlyFees := r.URL.Query().Get("isFee") == "1"

	transactions := make([]nodeless.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if onlyFees && !t.IsFee {
			continue
		}
		transactions = append(transactions, t)
	}
	writeData(w, http.StatusOK, transactions)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "transactionID")
	for _, t := range s.transactions {
		if t.ID == id {
			writeData(w, http.StatusOK, t)
			return
		}
	}
	writeError(w, http.StatusNotFound, "transaction not found")
}

func (s *Server) createPaywall(w http.ResponseWriter, r *http.Request) {
	var paywall nodeless.Paywall
	if err := json.NewDecoder(r.Body).Decode(&paywall); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := nodeless.Timestamp(time.Now().Unix())
	paywall.ID = uuid.NewString()
	paywall.CreatedAt = &now
	paywall.UpdatedAt = &now
	s.paywalls[paywall.ID] = paywall

	writeData(w, http.StatusCreated, paywall)
}

func (s *Server) getPaywalls(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paywalls := make([]nodeless.Paywall, 0, len(s.paywalls))
	for _, p := range s.paywalls {
		paywalls = append(paywalls, p)
	}
	writeData(w, http.StatusOK, paywalls)
}

// getPaywall отвечает {"data": null} для неизвестного идентификатора,
// как это делает реальный API.
func (s *Server) getPaywall(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paywall, ok := s.paywalls[chi.URLParam(r, "paywallID")]
	if !ok {
		writeData(w, http.StatusOK, nil)
		return
	}
	writeData(w, http.StatusOK, paywall)
}

func (s *Server) updatePaywall(w http.ResponseWriter, r *http.Request) {
	var update nodeless.Paywall
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "paywallID")
	paywall, ok := s.paywalls[id]
	if !ok {
		writeError(w, http.StatusNotFound, "paywall not found")
		return
	}

	now := nodeless.Timestamp(time.Now().Unix())
	paywall.Name = update.Name
	paywall.Type = update.Type
	paywall.Price = update.Price
	paywall.Settings = update.Settings
	paywall.UpdatedAt = &now
	s.paywalls[id] = paywall

	writeData(w, http.StatusOK, nil)
}

func (s *Server) deletePaywall(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "paywallID")
	if _, ok := s.paywalls[id]; !ok {
		writeError(w, http.StatusNotFound, "paywall not found")
		return
	}
	delete(s.paywalls, id)

	writeData(w, http.StatusOK, nil)
}

func (s *Server) createPaywallRequest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paywall, ok := s.paywalls[chi.URLParam(r, "paywallID")]
	if !ok {
		writeError(w, http.StatusNotFound, "paywall not found")
		return
	}

	request := nodeless.PaywallRequest{
		ID:               uuid.NewString(),
		SatsAmount:       paywall.Price,
		Status:           "new",
		CreatedAt:        nodeless.Timestamp(time.Now().Unix()),
		OnchainAddress:   "bc1q" + uuid.NewString()[:8],
		LightningInvoice: "lnbc" + uuid.NewString()[:8],
		Paywall:          &paywall,
	}
	s.requests[request.ID] = request

	writeData(w, http.StatusCreated, request)
}

func (s *Server) getPaywallRequest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[chi.URLParam(r, "requestID")]
	if !ok {
		writeError(w, http.StatusNotFound, "paywall request not found")
		return
	}
	writeData(w, http.StatusOK, request)
}

func (s *Server) getPaywallRequestStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[chi.URLParam(r, "requestID")]
	if !ok {
		writeError(w, http.StatusNotFound, "paywall request not found")
		return
	}
	writeStatus(w, request.Status)
}

func (s *Server) createWebhook(parentParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nodeless.CreateWebhook
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		now := nodeless.Timestamp(time.Now().Unix())
		status := req.Status
		u := req.URL
		webhook := nodeless.Webhook{
			ID:        uuid.NewString(),
			Secret:    req.Secret,
			Status:    &status,
			Events:    req.Events,
			URL:       &u,
			CreatedAt: &now,
		}
		s.webhooks[webhook.ID] = webhookRecord{
			parentID: chi.URLParam(r, parentParam),
			webhook:  webhook,
		}

		writeData(w, http.StatusCreated, webhook)
	}
}

func (s *Server) listWebhooks(parentParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		parentID := chi.URLParam(r, parentParam)
		webhooks := make([]nodeless.Webhook, 0)
		for _, rec := range s.webhooks {
			if rec.parentID == parentID {
				webhooks = append(webhooks, rec.webhook)
			}
		}
		writeData(w, http.StatusOK, webhooks)
	}
}

func (s *Server) getWebhook(parentParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.webhooks[chi.URLParam(r, "webhookID")]
		if !ok || rec.parentID != chi.URLParam(r, parentParam) {
			writeError(w, http.StatusNotFound, "webhook not found")
			return
		}
		writeData(w, http.StatusOK, rec.webhook)
	}
}

func (s *Server) updateWebhook(parentParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nodeless.CreateWebhook
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "webhookID")
		rec, ok := s.webhooks[id]
		if !ok || rec.parentID != chi.URLParam(r, parentParam) {
			writeError(w, http.StatusNotFound, "webhook not found")
			return
		}

		status := req.Status
		u := req.URL
		rec.webhook.Secret = req.Secret
		rec.webhook.Status = &status
		rec.webhook.Events = req.Events
		rec.webhook.URL = &u
		s.webhooks[id] = rec

		writeData(w, http.StatusOK, rec.webhook)
	}
}

func (s *Server) deleteWebhook(parentParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "webhookID")
		rec, ok := s.webhooks[id]
		if !ok || rec.parentID != chi.URLParam(r, parentParam) {
			writeError(w, http.StatusNotFound, "webhook not found")
			return
		}
		delete(s.webhooks, id)

		writeData(w, http.StatusOK, nil)
	}
}
