package worker

import (
	"context"

	"rewardplay-bot/internal/bot"
	"rewardplay-bot/internal/util"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// UpdateSource delivers Telegram updates by long polling
type UpdateSource interface {
	Updates(timeoutSeconds int) tgbotapi.UpdatesChannel
	StopUpdates()
}

// UpdateWorker drains the polling channel one update at a time
type UpdateWorker struct {
	source      UpdateSource
	dispatcher  *bot.Dispatcher
	pollTimeout int
	logger      *zap.Logger
}

// NewUpdateWorker creates a new update worker
func NewUpdateWorker(source UpdateSource, dispatcher *bot.Dispatcher, pollTimeoutSeconds int) *UpdateWorker {
	return &UpdateWorker{
		source:      source,
		dispatcher:  dispatcher,
		pollTimeout: pollTimeoutSeconds,
		logger:      util.GetLogger(),
	}
}

// Start blocks until ctx is cancelled or the source closes its channel
func (w *UpdateWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting update worker", zap.Int("poll_timeout_seconds", w.pollTimeout))
	updates := w.source.Updates(w.pollTimeout)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Update worker context cancelled, stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				w.logger.Info("Update channel closed")
				return nil
			}
			if err := w.dispatcher.HandleUpdate(ctx, update); err != nil {
				w.logger.Error("Error handling update",
					zap.Int("update_id", update.UpdateID),
					zap.Error(err))
			}
		}
	}
}

// Stop stops polling
func (w *UpdateWorker) Stop() {
	w.logger.Info("Stopping update worker")
	w.source.StopUpdates()
}
