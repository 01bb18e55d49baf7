package models

import "time"

// Event types
const (
	EventTypeInvoiceIssued          = "INVOICE_ISSUED"
	EventTypeEntitlementGranted     = "ENTITLEMENT_GRANTED"
	EventTypePurchaseDenied         = "PURCHASE_DENIED"
	EventTypePaymentProcessingError = "PAYMENT_PROCESSING_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// InvoiceIssuedEvent published after an invoice reaches the chat
type InvoiceIssuedEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	ChatID    int64  `json:"chat_id"`
	Catalog   string `json:"catalog"`
	ProductID string `json:"product_id"`
	Currency  string `json:"currency"`
	Amount    int64  `json:"amount"`
}

// EntitlementGrantedEvent published when a paid purchase is credited
type EntitlementGrantedEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Catalog   string `json:"catalog"`
	ProductID string `json:"product_id"`
	Kind      string `json:"kind"`
	Amount    int64  `json:"amount"`
	ChargeID  string `json:"charge_id"`
}

// PurchaseDeniedEvent published when a completed payment cannot be honoured
// because the user's balance is insufficient
type PurchaseDeniedEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Catalog   string `json:"catalog"`
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
	ChargeID  string `json:"charge_id"`
}

// PaymentProcessingFailedEvent published when a charge was taken but the
// grant failed. These need manual follow-up.
type PaymentProcessingFailedEvent struct {
	BaseEvent
	Payload  string `json:"payload"`
	ChargeID string `json:"charge_id"`
	Reason   string `json:"reason"`
}

// Inbound events, decoupled from the Telegram client types.

// CommandEvent is a text message from a chat
type CommandEvent struct {
	ChatID int64
	UserID string
	Text   string
}

// PreCheckoutEvent asks whether a pending payment may proceed
type PreCheckoutEvent struct {
	QueryID     string
	UserID      string
	UserName    string
	Currency    string
	TotalAmount int64
	Payload     string
}

// PaymentCompletedEvent announces a successful payment
type PaymentCompletedEvent struct {
	ChatID           int64
	UserID           string
	Currency         string
	TotalAmount      int64
	Payload          string
	ChargeID         string
	ProviderChargeID string
	ShippingAddress  string
}
