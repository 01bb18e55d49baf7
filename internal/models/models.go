package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog is the product collection a purchase targets. It decides how
// a product's price is denominated.
type Catalog string

const (
	CatalogInAppPurchases Catalog = "inAppPurchases"
	CatalogStickerPacks   Catalog = "stickerPacks"
)

// Valid reports whether c is one of the purchasable catalogs
func (c Catalog) Valid() bool {
	return c == CatalogInAppPurchases || c == CatalogStickerPacks
}

// Product types
const (
	ProductTypePhysical    = "physical"
	ProductTypeCoins       = "coins"
	ProductTypeSpins       = "spins"
	ProductTypeStickerPack = "sticker-pack"
)

// Product is a catalog entry. Price is USD for in-app purchases and coins
// for sticker packs.
type Product struct {
	Catalog     Catalog         `db:"catalog" json:"catalog"`
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	ImageURL    string          `db:"image_url" json:"image_url"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Type        string          `db:"type" json:"type"`
	Amount      int64           `db:"amount" json:"amount"`
}

// IsPhysical reports whether the product ships and is paid in real currency
func (p *Product) IsPhysical() bool {
	return p.Type == ProductTypePhysical
}

// User holds the balances this service mutates
type User struct {
	ID        string    `db:"id" json:"id"`
	Coins     int64     `db:"coins" json:"coins"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SpinData is the per-user spin sub-record
type SpinData struct {
	UserID                  string    `db:"user_id" json:"user_id"`
	PurchasedSpinsRemaining int64     `db:"purchased_spins_remaining" json:"purchased_spins_remaining"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// Currencies
const (
	CurrencyStars = "XTR"
	CurrencyUSD   = "USD"
)

// Quote is the computed invoice price for a product
type Quote struct {
	Currency     string `json:"currency"`
	Amount       int64  `json:"amount"`
	NeedShipping bool   `json:"need_shipping"`
}

// LabeledPrice is a single invoice line item in minor units
type LabeledPrice struct {
	Label  string
	Amount int64
}

// Invoice is what gets sent to the payment channel
type Invoice struct {
	Title               string
	Description         string
	Payload             string
	ProviderToken       string
	Currency            string
	Prices              []LabeledPrice
	PhotoURL            string
	PhotoWidth          int
	PhotoHeight         int
	NeedShippingAddress bool
}

// Payment ledger statuses
const (
	PaymentStatusReceived = "RECEIVED"
	PaymentStatusGranted  = "GRANTED"
	PaymentStatusDenied   = "DENIED"
	PaymentStatusFailed   = "FAILED"
)

// PaymentRecord is the ledger row for a completed payment, keyed by the
// Telegram charge id.
type PaymentRecord struct {
	ChargeID         string    `db:"charge_id" json:"charge_id"`
	ProviderChargeID string    `db:"provider_charge_id" json:"provider_charge_id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Catalog          string    `db:"catalog" json:"catalog"`
	ProductID        string    `db:"product_id" json:"product_id"`
	Currency         string    `db:"currency" json:"currency"`
	TotalAmount      int64     `db:"total_amount" json:"total_amount"`
	ShippingAddress  string    `db:"shipping_address" json:"shipping_address,omitempty"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
