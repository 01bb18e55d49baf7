package service

import (
	"context"
	"errors"
	"fmt"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/payload"
	"rewardplay-bot/internal/store"
	"rewardplay-bot/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrInvalidCatalog        = errors.New("invalid purchase type")
	ErrProviderNotConfigured = errors.New("physical goods payment provider is not configured")
)

// Invoice photo dimensions
const (
	invoicePhotoWidth  = 600
	invoicePhotoHeight = 400
)

// PurchaseService turns a purchase intent into an invoice
type PurchaseService struct {
	products              ProductStore
	messenger             Messenger
	events                EventPublisher
	physicalProviderToken string
	logger                *zap.Logger
}

// NewPurchaseService creates a new purchase service. An empty
// physicalProviderToken disables physical goods.
func NewPurchaseService(
	products ProductStore,
	messenger Messenger,
	events EventPublisher,
	physicalProviderToken string,
) *PurchaseService {
	return &PurchaseService{
		products:              products,
		messenger:             messenger,
		events:                events,
		physicalProviderToken: physicalProviderToken,
		logger:                util.GetLogger(),
	}
}

// RequestPurchase validates the request, prices the product and sends the
// invoice to the chat. Every outcome is answered in the chat; the returned
// error only reports external failures.
func (s *PurchaseService) RequestPurchase(ctx context.Context, chatID int64, userID, catalog, productID string) error {
	ctx, span := util.StartSpan(ctx, "PurchaseService.RequestPurchase",
		attribute.String("catalog", catalog),
		attribute.String("product_id", productID))
	defer span.End()

	s.logger.Info("Purchase requested",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", userID),
		zap.String("catalog", catalog),
		zap.String("product_id", productID))

	c := models.Catalog(catalog)
	if !c.Valid() {
		util.PurchaseRequestsRejectedTotal.WithLabelValues("invalid_catalog").Inc()
		return s.reply(ctx, chatID, msgInvalidPurchaseType)
	}

	product, err := s.products.GetProduct(ctx, c, productID)
	if errors.Is(err, store.ErrProductNotFound) {
		util.PurchaseRequestsRejectedTotal.WithLabelValues("product_not_found").Inc()
		s.logger.Warn("Product not found", zap.String("catalog", catalog), zap.String("product_id", productID))
		return s.reply(ctx, chatID, msgProductNotFound)
	}
	if err != nil {
		return s.fail(ctx, chatID, fmt.Errorf("failed to get product: %w", err))
	}

	invoice, quote, err := s.buildInvoice(product, userID)
	if errors.Is(err, ErrProviderNotConfigured) {
		util.PurchaseRequestsRejectedTotal.WithLabelValues("provider_not_configured").Inc()
		s.logger.Error("TELEGRAM_PHYSICAL_PROVIDER_TOKEN is not set for physical goods",
			zap.String("product_id", productID))
		return s.reply(ctx, chatID, msgProviderNotConfigured)
	}
	if err != nil {
		return s.fail(ctx, chatID, err)
	}

	if err := s.messenger.SendInvoice(ctx, chatID, invoice); err != nil {
		return s.fail(ctx, chatID, fmt.Errorf("failed to send invoice: %w", err))
	}

	util.InvoicesIssuedTotal.WithLabelValues(catalog, quote.Currency).Inc()
	s.logger.Info("Invoice sent",
		zap.Int64("chat_id", chatID),
		zap.String("product_id", productID),
		zap.String("currency", quote.Currency),
		zap.Int64("amount", quote.Amount))

	event := &models.InvoiceIssuedEvent{
		UserID:    userID,
		ChatID:    chatID,
		Catalog:   catalog,
		ProductID: productID,
		Currency:  quote.Currency,
		Amount:    quote.Amount,
	}
	if err := s.events.PublishInvoiceIssued(ctx, event); err != nil {
		s.logger.Error("Failed to publish InvoiceIssued event", zap.Error(err))
	}

	return nil
}

// buildInvoice prices the product and assembles the invoice
func (s *PurchaseService) buildInvoice(product *models.Product, userID string) (*models.Invoice, models.Quote, error) {
	quote := QuoteProduct(product)
	if quote.NeedShipping && s.physicalProviderToken == "" {
		return nil, quote, ErrProviderNotConfigured
	}

	encoded, err := payload.Encode(payload.Payload{
		Catalog:   string(product.Catalog),
		ProductID: product.ID,
		UserID:    userID,
	})
	if err != nil {
		return nil, quote, fmt.Errorf("failed to encode payload: %w", err)
	}

	description := product.Description
	if description == "" {
		description = product.Name
	}

	invoice := &models.Invoice{
		Title:       product.Name,
		Description: description,
		Payload:     encoded,
		Currency:    quote.Currency,
		Prices:      []models.LabeledPrice{{Label: product.Name, Amount: quote.Amount}},
		PhotoURL:    product.ImageURL,
		PhotoWidth:  invoicePhotoWidth,
		PhotoHeight: invoicePhotoHeight,
	}
	if quote.NeedShipping {
		invoice.ProviderToken = s.physicalProviderToken
		invoice.NeedShippingAddress = true
	}

	return invoice, quote, nil
}

func (s *PurchaseService) fail(ctx context.Context, chatID int64, err error) error {
	util.PurchaseRequestsRejectedTotal.WithLabelValues("error").Inc()
	s.logger.Error("Error creating invoice", zap.Int64("chat_id", chatID), zap.Error(err))
	if replyErr := s.reply(ctx, chatID, msgInvoiceFailed); replyErr != nil {
		return errors.Join(err, replyErr)
	}
	return err
}

func (s *PurchaseService) reply(ctx context.Context, chatID int64, text string) error {
	if err := s.messenger.SendMessage(ctx, chatID, text); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}
