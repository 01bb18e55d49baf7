package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/store"
)

type sentMessage struct {
	chatID int64
	text   string
}

type sentInvoice struct {
	chatID  int64
	invoice *models.Invoice
}

type preCheckoutAnswer struct {
	queryID string
	ok      bool
}

type fakeMessenger struct {
	mu         sync.Mutex
	messages   []sentMessage
	invoices   []sentInvoice
	answers    []preCheckoutAnswer
	messageErr error
	invoiceErr error
	answerErr  error
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messageErr != nil {
		return m.messageErr
	}
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (m *fakeMessenger) SendInvoice(_ context.Context, chatID int64, invoice *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invoiceErr != nil {
		return m.invoiceErr
	}
	m.invoices = append(m.invoices, sentInvoice{chatID: chatID, invoice: invoice})
	return nil
}

func (m *fakeMessenger) AnswerPreCheckout(_ context.Context, queryID string, ok bool, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.answerErr != nil {
		return m.answerErr
	}
	m.answers = append(m.answers, preCheckoutAnswer{queryID: queryID, ok: ok})
	return nil
}

func (m *fakeMessenger) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg.text)
	}
	return out
}

type fakeProducts struct {
	products map[string]*models.Product
	err      error
	calls    int
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]*models.Product{}}
	for _, p := range products {
		f.products[string(p.Catalog)+"/"+p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetProduct(_ context.Context, catalog models.Catalog, id string) (*models.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[string(catalog)+"/"+id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", store.ErrProductNotFound, catalog, id)
	}
	return p, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	coins map[string]int64
	spins map[string]int64
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{coins: map[string]int64{}, spins: map[string]int64{}}
}

func (f *fakeUsers) IncrementCoins(_ context.Context, userID string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.coins[userID]; !ok {
		return fmt.Errorf("%w: %s", store.ErrUserNotFound, userID)
	}
	f.coins[userID] += amount
	return nil
}

func (f *fakeUsers) IncrementPurchasedSpins(_ context.Context, userID string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.spins[userID] += amount
	return nil
}

func (f *fakeUsers) DebitCoinsIfSufficient(_ context.Context, userID string, amount int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	balance, ok := f.coins[userID]
	if !ok {
		return false, fmt.Errorf("%w: %s", store.ErrUserNotFound, userID)
	}
	if balance < amount {
		return false, nil
	}
	f.coins[userID] = balance - amount
	return true, nil
}

type fakeLedger struct {
	mu       sync.Mutex
	records  map[string]*models.PaymentRecord
	claimErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]*models.PaymentRecord{}}
}

func (f *fakeLedger) ClaimPayment(_ context.Context, rec *models.PaymentRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return false, f.claimErr
	}
	if _, ok := f.records[rec.ChargeID]; ok {
		return false, nil
	}
	cp := *rec
	f.records[rec.ChargeID] = &cp
	return true, nil
}

func (f *fakeLedger) UpdatePaymentStatus(_ context.Context, chargeID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[chargeID]; ok {
		rec.Status = status
	}
	return nil
}

func (f *fakeLedger) status(chargeID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[chargeID]; ok {
		return rec.Status
	}
	return ""
}

type fakeEvents struct {
	mu       sync.Mutex
	invoices []*models.InvoiceIssuedEvent
	granted  []*models.EntitlementGrantedEvent
	denied   []*models.PurchaseDeniedEvent
	failed   []*models.PaymentProcessingFailedEvent
	err      error
}

func (f *fakeEvents) PublishInvoiceIssued(_ context.Context, e *models.InvoiceIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices = append(f.invoices, e)
	return f.err
}

func (f *fakeEvents) PublishEntitlementGranted(_ context.Context, e *models.EntitlementGrantedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = append(f.granted, e)
	return f.err
}

func (f *fakeEvents) PublishPurchaseDenied(_ context.Context, e *models.PurchaseDeniedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied = append(f.denied, e)
	return f.err
}

func (f *fakeEvents) PublishPaymentProcessingFailed(_ context.Context, e *models.PaymentProcessingFailedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, e)
	return f.err
}

type fakeCache struct {
	products map[string]*models.Product
	getErr   error
	sets     int
	lastTTL  time.Duration
}

func (c *fakeCache) GetProduct(_ context.Context, catalog models.Catalog, id string) (*models.Product, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	p, ok := c.products[string(catalog)+"/"+id]
	return p, ok, nil
}

func (c *fakeCache) SetProduct(_ context.Context, p *models.Product, ttl time.Duration) error {
	if c.products == nil {
		c.products = map[string]*models.Product{}
	}
	c.products[string(p.Catalog)+"/"+p.ID] = p
	c.sets++
	c.lastTTL = ttl
	return nil
}
