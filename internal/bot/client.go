package bot

import (
	"context"
	"fmt"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/util"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Client sends messages, invoices and pre-checkout answers through the
// Telegram Bot API and is the source of polled updates.
type Client struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewClient authenticates against the Bot API with token
func NewClient(token string, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debug

	return &Client{api: api, logger: util.GetLogger()}, nil
}

// Username returns the bot's @username
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// SendMessage sends a plain text message
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, span := util.StartSpan(ctx, "telegram.sendMessage", attribute.Int64("chat_id", chatID))
	defer span.End()

	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("sendMessage: %w", err)
	}
	return nil
}

// SendInvoice sends an invoice for the given prices
func (c *Client) SendInvoice(ctx context.Context, chatID int64, invoice *models.Invoice) error {
	_, span := util.StartSpan(ctx, "telegram.sendInvoice",
		attribute.Int64("chat_id", chatID),
		attribute.String("currency", invoice.Currency))
	defer span.End()

	prices := make([]tgbotapi.LabeledPrice, 0, len(invoice.Prices))
	for _, p := range invoice.Prices {
		prices = append(prices, tgbotapi.LabeledPrice{Label: p.Label, Amount: int(p.Amount)})
	}

	cfg := tgbotapi.NewInvoice(chatID, invoice.Title, invoice.Description, invoice.Payload,
		invoice.ProviderToken, "", invoice.Currency, prices)
	cfg.PhotoURL = invoice.PhotoURL
	cfg.PhotoWidth = invoice.PhotoWidth
	cfg.PhotoHeight = invoice.PhotoHeight
	cfg.NeedShippingAddress = invoice.NeedShippingAddress
	// a nil slice is sent as null, which Telegram rejects
	cfg.SuggestedTipAmounts = []int{}

	if _, err := c.api.Send(cfg); err != nil {
		span.RecordError(err)
		return fmt.Errorf("sendInvoice: %w", err)
	}
	return nil
}

// AnswerPreCheckout approves or rejects a pending payment
func (c *Client) AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	_, span := util.StartSpan(ctx, "telegram.answerPreCheckoutQuery", attribute.Bool("ok", ok))
	defer span.End()

	cfg := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       errorMessage,
	}
	if _, err := c.api.Request(cfg); err != nil {
		span.RecordError(err)
		return fmt.Errorf("answerPreCheckoutQuery: %w", err)
	}
	return nil
}

// Updates starts long polling
func (c *Client) Updates(timeoutSeconds int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSeconds
	u.AllowedUpdates = []string{"message", "pre_checkout_query"}
	return c.api.GetUpdatesChan(u)
}

// StopUpdates stops long polling
func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

// SetWebhook points Telegram at url for update delivery
func (c *Client) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	wh.AllowedUpdates = []string{"message", "pre_checkout_query"}

	if _, err := c.api.Request(wh); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook switches the bot back to getUpdates delivery
func (c *Client) DeleteWebhook() error {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}
