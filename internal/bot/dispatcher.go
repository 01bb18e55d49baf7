package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/util"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type (
	CommandHandler          func(ctx context.Context, cmd *models.CommandEvent) error
	PreCheckoutHandler      func(ctx context.Context, query *models.PreCheckoutEvent) error
	PaymentCompletedHandler func(ctx context.Context, payment *models.PaymentCompletedEvent) error
)

// Dispatcher translates Telegram updates into models events and routes
// them to the registered handlers
type Dispatcher struct {
	onCommand          CommandHandler
	onPreCheckout      PreCheckoutHandler
	onPaymentCompleted PaymentCompletedHandler
	logger             *zap.Logger
}

// NewDispatcher creates a dispatcher with no handlers
func NewDispatcher() *Dispatcher {
	return &Dispatcher{logger: util.GetLogger()}
}

// OnCommand registers the handler for text messages
func (d *Dispatcher) OnCommand(h CommandHandler) {
	d.onCommand = h
}

// OnPreCheckout registers the handler for pre_checkout_query updates
func (d *Dispatcher) OnPreCheckout(h PreCheckoutHandler) {
	d.onPreCheckout = h
}

// OnPaymentCompleted registers the handler for successful_payment messages
func (d *Dispatcher) OnPaymentCompleted(h PaymentCompletedHandler) {
	d.onPaymentCompleted = h
}

// HandleUpdate routes one update. A panicking handler is reported as an
// error instead of taking the process down.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Handler panicked", zap.Int("update_id", update.UpdateID), zap.Any("panic", r))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	switch {
	case update.PreCheckoutQuery != nil:
		util.UpdatesReceivedTotal.WithLabelValues("pre_checkout_query").Inc()
		if d.onPreCheckout == nil {
			return nil
		}
		return d.onPreCheckout(ctx, preCheckoutEvent(update.PreCheckoutQuery))

	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		util.UpdatesReceivedTotal.WithLabelValues("successful_payment").Inc()
		if d.onPaymentCompleted == nil {
			return nil
		}
		return d.onPaymentCompleted(ctx, paymentCompletedEvent(update.Message))

	case update.Message != nil && update.Message.Text != "":
		util.UpdatesReceivedTotal.WithLabelValues("message").Inc()
		if d.onCommand == nil {
			return nil
		}
		return d.onCommand(ctx, &models.CommandEvent{
			ChatID: chatID(update.Message),
			UserID: userID(update.Message.From),
			Text:   update.Message.Text,
		})
	}

	util.UpdatesReceivedTotal.WithLabelValues("other").Inc()
	return nil
}

func preCheckoutEvent(q *tgbotapi.PreCheckoutQuery) *models.PreCheckoutEvent {
	ev := &models.PreCheckoutEvent{
		QueryID:     q.ID,
		UserID:      userID(q.From),
		Currency:    q.Currency,
		TotalAmount: int64(q.TotalAmount),
		Payload:     q.InvoicePayload,
	}
	if q.From != nil {
		ev.UserName = q.From.FirstName
	}
	return ev
}

func paymentCompletedEvent(msg *tgbotapi.Message) *models.PaymentCompletedEvent {
	p := msg.SuccessfulPayment
	return &models.PaymentCompletedEvent{
		ChatID:           chatID(msg),
		UserID:           userID(msg.From),
		Currency:         p.Currency,
		TotalAmount:      int64(p.TotalAmount),
		Payload:          p.InvoicePayload,
		ChargeID:         p.TelegramPaymentChargeID,
		ProviderChargeID: p.ProviderPaymentChargeID,
		ShippingAddress:  formatShippingAddress(p.OrderInfo),
	}
}

func chatID(msg *tgbotapi.Message) int64 {
	if msg.Chat == nil {
		return 0
	}
	return msg.Chat.ID
}

func userID(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}

func formatShippingAddress(info *tgbotapi.OrderInfo) string {
	if info == nil || info.ShippingAddress == nil {
		return ""
	}
	a := info.ShippingAddress

	var parts []string
	for _, s := range []string{info.Name, a.StreetLine1, a.StreetLine2, a.City, a.State, a.PostCode, a.CountryCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
