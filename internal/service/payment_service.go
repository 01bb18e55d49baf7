package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/payload"
	"rewardplay-bot/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentService reconciles Telegram payment callbacks with user balances
type PaymentService struct {
	products  ProductStore
	users     UserStore
	ledger    PaymentLedger
	messenger Messenger
	events    EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	products ProductStore,
	users UserStore,
	ledger PaymentLedger,
	messenger Messenger,
	events EventPublisher,
) *PaymentService {
	return &PaymentService{
		products:  products,
		users:     users,
		ledger:    ledger,
		messenger: messenger,
		events:    events,
		logger:    util.GetLogger(),
	}
}

// grant is the result of applying a purchase to a user
type grant struct {
	status string
	kind   string
	amount int64
	reply  string
}

// HandlePreCheckout approves every pending payment. Stock and fraud checks
// are not performed.
func (ps *PaymentService) HandlePreCheckout(ctx context.Context, query *models.PreCheckoutEvent) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.HandlePreCheckout")
	defer span.End()

	ps.logger.Info("Answering pre-checkout query",
		zap.String("query_id", query.QueryID),
		zap.String("user_id", query.UserID),
		zap.String("from", query.UserName),
		zap.String("currency", query.Currency),
		zap.Int64("total_amount", query.TotalAmount))

	if err := ps.messenger.AnswerPreCheckout(ctx, query.QueryID, true, ""); err != nil {
		util.PreCheckoutAnsweredTotal.WithLabelValues("error").Inc()
		ps.logger.Error("Error answering pre-checkout query",
			zap.String("query_id", query.QueryID),
			zap.Error(err))
		return nil
	}

	util.PreCheckoutAnsweredTotal.WithLabelValues("approved").Inc()
	return nil
}

// HandlePaymentCompleted credits the purchased entitlement and tells the
// user. Each charge is applied at most once.
func (ps *PaymentService) HandlePaymentCompleted(ctx context.Context, event *models.PaymentCompletedEvent) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.HandlePaymentCompleted",
		attribute.String("charge_id", event.ChargeID))
	defer span.End()

	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	ps.logger.Info("Successful payment received",
		zap.Int64("chat_id", event.ChatID),
		zap.String("charge_id", event.ChargeID),
		zap.String("currency", event.Currency),
		zap.Int64("total_amount", event.TotalAmount))

	pl, err := payload.Decode(event.Payload)
	if err != nil {
		return ps.fail(ctx, event, "", err)
	}

	if pl.UserID != event.UserID {
		ps.logger.Warn("Payer differs from payload user",
			zap.String("payload_user_id", pl.UserID),
			zap.String("payer_user_id", event.UserID))
	}

	chargeID := event.ChargeID
	if chargeID == "" {
		chargeID = "missing-" + uuid.New().String()
		ps.logger.Warn("Payment without charge id", zap.String("assigned_charge_id", chargeID))
	}

	claimed, err := ps.ledger.ClaimPayment(ctx, &models.PaymentRecord{
		ChargeID:         chargeID,
		ProviderChargeID: event.ProviderChargeID,
		UserID:           pl.UserID,
		Catalog:          pl.Catalog,
		ProductID:        pl.ProductID,
		Currency:         event.Currency,
		TotalAmount:      event.TotalAmount,
		ShippingAddress:  event.ShippingAddress,
		Status:           models.PaymentStatusReceived,
	})
	if err != nil {
		return ps.fail(ctx, event, chargeID, err)
	}
	if !claimed {
		util.PaymentsCompletedTotal.WithLabelValues(pl.Catalog, "duplicate").Inc()
		ps.logger.Info("Payment already processed", zap.String("charge_id", chargeID))
		return nil
	}

	g, product, err := ps.applyEntitlement(ctx, pl)
	if err != nil {
		ps.markPayment(ctx, chargeID, models.PaymentStatusFailed)
		return ps.fail(ctx, event, chargeID, err)
	}
	ps.markPayment(ctx, chargeID, g.status)
	util.PaymentsCompletedTotal.WithLabelValues(pl.Catalog, g.status).Inc()

	if g.status == models.PaymentStatusGranted {
		util.EntitlementsGrantedTotal.WithLabelValues(g.kind).Add(float64(g.amount))
		ps.logger.Info("Entitlement granted",
			zap.String("user_id", pl.UserID),
			zap.String("product_id", pl.ProductID),
			zap.String("kind", g.kind),
			zap.Int64("amount", g.amount))

		granted := &models.EntitlementGrantedEvent{
			UserID:    pl.UserID,
			Catalog:   pl.Catalog,
			ProductID: pl.ProductID,
			Kind:      g.kind,
			Amount:    g.amount,
			ChargeID:  chargeID,
		}
		if err := ps.events.PublishEntitlementGranted(ctx, granted); err != nil {
			ps.logger.Error("Failed to publish EntitlementGranted event", zap.Error(err))
		}
	} else {
		ps.logger.Info("Insufficient coins for sticker pack",
			zap.String("user_id", pl.UserID),
			zap.String("product_id", pl.ProductID),
			zap.String("price", product.Price.String()))

		denied := &models.PurchaseDeniedEvent{
			UserID:    pl.UserID,
			Catalog:   pl.Catalog,
			ProductID: pl.ProductID,
			Reason:    "insufficient_coins",
			ChargeID:  chargeID,
		}
		if err := ps.events.PublishPurchaseDenied(ctx, denied); err != nil {
			ps.logger.Error("Failed to publish PurchaseDenied event", zap.Error(err))
		}
	}

	if err := ps.messenger.SendMessage(ctx, event.ChatID, g.reply); err != nil {
		return fmt.Errorf("failed to send purchase confirmation: %w", err)
	}
	return nil
}

// applyEntitlement mutates the user record for the purchased product
func (ps *PaymentService) applyEntitlement(ctx context.Context, pl payload.Payload) (*grant, *models.Product, error) {
	catalog := models.Catalog(pl.Catalog)
	if !catalog.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidCatalog, pl.Catalog)
	}

	product, err := ps.products.GetProduct(ctx, catalog, pl.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("product %s from payload: %w", pl.ProductID, err)
	}

	if catalog == models.CatalogStickerPacks {
		cost := CoinCost(product.Price)
		ok, err := ps.users.DebitCoinsIfSufficient(ctx, pl.UserID, cost)
		if err != nil {
			return nil, product, fmt.Errorf("failed to debit coins: %w", err)
		}
		if !ok {
			return &grant{
				status: models.PaymentStatusDenied,
				kind:   models.ProductTypeStickerPack,
				reply:  insufficientCoinsMessage(product.Name),
			}, product, nil
		}
		return &grant{
			status: models.PaymentStatusGranted,
			kind:   models.ProductTypeStickerPack,
			amount: 1,
			reply:  stickerPackUnlockedMessage(product.Name),
		}, product, nil
	}

	switch product.Type {
	case models.ProductTypeCoins:
		if err := ps.users.IncrementCoins(ctx, pl.UserID, product.Amount); err != nil {
			return nil, product, err
		}
		return &grant{
			status: models.PaymentStatusGranted,
			kind:   models.ProductTypeCoins,
			amount: product.Amount,
			reply:  coinsAddedMessage(product.Amount),
		}, product, nil

	case models.ProductTypeSpins:
		if err := ps.users.IncrementPurchasedSpins(ctx, pl.UserID, product.Amount); err != nil {
			return nil, product, err
		}
		return &grant{
			status: models.PaymentStatusGranted,
			kind:   models.ProductTypeSpins,
			amount: product.Amount,
			reply:  spinsAddedMessage(product.Amount),
		}, product, nil

	case models.ProductTypePhysical:
		return &grant{
			status: models.PaymentStatusGranted,
			kind:   models.ProductTypePhysical,
			amount: 1,
			reply:  physicalOrderMessage(product.Name),
		}, product, nil
	}

	return nil, product, fmt.Errorf("unsupported product type %q for %s", product.Type, product.ID)
}

func (ps *PaymentService) markPayment(ctx context.Context, chargeID, status string) {
	if err := ps.ledger.UpdatePaymentStatus(ctx, chargeID, status); err != nil {
		ps.logger.Error("Failed to update payment status",
			zap.String("charge_id", chargeID),
			zap.String("status", status),
			zap.Error(err))
	}
}

// fail logs the failure, records it for follow-up and points the user at
// support
func (ps *PaymentService) fail(ctx context.Context, event *models.PaymentCompletedEvent, chargeID string, err error) error {
	util.PaymentsCompletedTotal.WithLabelValues("unknown", models.PaymentStatusFailed).Inc()
	ps.logger.Error("Error processing successful payment",
		zap.Int64("chat_id", event.ChatID),
		zap.String("payload", event.Payload),
		zap.String("charge_id", chargeID),
		zap.Error(err))

	failed := &models.PaymentProcessingFailedEvent{
		Payload:  event.Payload,
		ChargeID: event.ChargeID,
		Reason:   err.Error(),
	}
	if pubErr := ps.events.PublishPaymentProcessingFailed(ctx, failed); pubErr != nil {
		ps.logger.Error("Failed to publish PaymentProcessingFailed event", zap.Error(pubErr))
	}

	if sendErr := ps.messenger.SendMessage(ctx, event.ChatID, msgContactSupport); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return err
}
