package service

import (
	"context"
	"regexp"
	"strings"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/util"

	"go.uber.org/zap"
)

var (
	startPattern = regexp.MustCompile(`^/start(?:@\w+)?$`)
	// Deep link start parameter: purchase-<catalog>-<productId>. Catalog
	// names contain no hyphen, so the first one splits the two.
	deepLinkPattern = regexp.MustCompile(`^/start(?:@\w+)?\s+purchase-([^-\s]+)-(\S+)$`)
	purchasePattern = regexp.MustCompile(`^/purchase(?:@\w+)?\s+(\S+)\s+(\S+)$`)
)

// Purchaser starts a purchase for a chat
type Purchaser interface {
	RequestPurchase(ctx context.Context, chatID int64, userID, catalog, productID string) error
}

// Router maps chat commands to actions. Unrecognised text is ignored.
type Router struct {
	purchases Purchaser
	messenger Messenger
	logger    *zap.Logger
}

// NewRouter creates a new command router
func NewRouter(purchases Purchaser, messenger Messenger) *Router {
	return &Router{
		purchases: purchases,
		messenger: messenger,
		logger:    util.GetLogger(),
	}
}

// HandleCommand dispatches a single chat message
func (r *Router) HandleCommand(ctx context.Context, cmd *models.CommandEvent) error {
	text := strings.TrimSpace(cmd.Text)

	if m := deepLinkPattern.FindStringSubmatch(text); m != nil {
		util.CommandsHandledTotal.WithLabelValues("start_purchase").Inc()
		return r.purchases.RequestPurchase(ctx, cmd.ChatID, cmd.UserID, m[1], m[2])
	}

	if startPattern.MatchString(text) {
		util.CommandsHandledTotal.WithLabelValues("start").Inc()
		return r.messenger.SendMessage(ctx, cmd.ChatID, welcomeMessage(cmd.ChatID))
	}

	if m := purchasePattern.FindStringSubmatch(text); m != nil {
		util.CommandsHandledTotal.WithLabelValues("purchase").Inc()
		return r.purchases.RequestPurchase(ctx, cmd.ChatID, cmd.UserID, m[1], m[2])
	}

	r.logger.Debug("Ignoring unrecognised message", zap.Int64("chat_id", cmd.ChatID))
	return nil
}
