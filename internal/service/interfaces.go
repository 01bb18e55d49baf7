package service

import (
	"context"
	"time"

	"rewardplay-bot/internal/models"
)

// Messenger is the outbound side of the chat channel
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendInvoice(ctx context.Context, chatID int64, invoice *models.Invoice) error
	AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error
}

// ProductStore looks up catalog entries. A missing product is reported
// as store.ErrProductNotFound.
type ProductStore interface {
	GetProduct(ctx context.Context, catalog models.Catalog, id string) (*models.Product, error)
}

// ProductCache is a best-effort product cache
type ProductCache interface {
	GetProduct(ctx context.Context, catalog models.Catalog, id string) (*models.Product, bool, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
}

// UserStore applies balance changes to user records
type UserStore interface {
	IncrementCoins(ctx context.Context, userID string, amount int64) error
	IncrementPurchasedSpins(ctx context.Context, userID string, amount int64) error
	DebitCoinsIfSufficient(ctx context.Context, userID string, amount int64) (bool, error)
}

// PaymentLedger records processed payments by charge id
type PaymentLedger interface {
	ClaimPayment(ctx context.Context, rec *models.PaymentRecord) (bool, error)
	UpdatePaymentStatus(ctx context.Context, chargeID, status string) error
}

// EventPublisher emits purchase lifecycle events
type EventPublisher interface {
	PublishInvoiceIssued(ctx context.Context, event *models.InvoiceIssuedEvent) error
	PublishEntitlementGranted(ctx context.Context, event *models.EntitlementGrantedEvent) error
	PublishPurchaseDenied(ctx context.Context, event *models.PurchaseDeniedEvent) error
	PublishPaymentProcessingFailed(ctx context.Context, event *models.PaymentProcessingFailedEvent) error
}
