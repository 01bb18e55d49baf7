package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rewardplay-bot/config"
	"rewardplay-bot/internal/api"
	"rewardplay-bot/internal/bot"
	"rewardplay-bot/internal/broker"
	"rewardplay-bot/internal/redisclient"
	"rewardplay-bot/internal/service"
	"rewardplay-bot/internal/store"
	"rewardplay-bot/internal/util"
	"rewardplay-bot/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "rewardplay-bot"

func main() {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Env, serviceName); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting RewardPlay bot", zap.String("telegram_mode", cfg.Telegram.Mode))

	tp, err := util.InitTracer(serviceName, cfg.Server.Env, cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	if cfg.Database.Migrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema applied")
	}

	// The product cache is optional; without Redis every lookup hits Postgres.
	var cache service.ProductCache
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, product cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cache = redisClient
			logger.Info("Redis connected")
		}
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPurchases)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicPurchases))

	eventPublisher := broker.NewEventPublisher(producer)

	botClient, err := bot.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	logger.Info("Telegram bot authorized", zap.String("username", botClient.Username()))

	catalogClient := service.NewCatalogClient(db, cache, time.Duration(cfg.Redis.ProductCacheTTL)*time.Second)
	purchaseService := service.NewPurchaseService(catalogClient, botClient, eventPublisher, cfg.Telegram.PhysicalProviderToken)
	paymentService := service.NewPaymentService(db, db, db, botClient, eventPublisher)
	router := service.NewRouter(purchaseService, botClient)

	dispatcher := bot.NewDispatcher()
	dispatcher.OnCommand(router.HandleCommand)
	dispatcher.OnPreCheckout(paymentService.HandlePreCheckout)
	dispatcher.OnPaymentCompleted(paymentService.HandlePaymentCompleted)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var updateWorker *worker.UpdateWorker
	var webhookUpdates api.UpdateHandler

	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		webhookURL := cfg.Telegram.WebhookURL + api.WebhookPath + "/" + cfg.Telegram.WebhookSecret
		if err := botClient.SetWebhook(webhookURL); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}
		webhookUpdates = dispatcher
		logger.Info("Webhook registered")
	default:
		if err := botClient.DeleteWebhook(); err != nil {
			log.Fatalf("Failed to remove webhook before polling: %v", err)
		}
		updateWorker = worker.NewUpdateWorker(botClient, dispatcher, cfg.Telegram.PollTimeoutSeconds)
		go func() {
			if err := updateWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Update worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	handler := api.NewHandler(catalogClient, db, webhookUpdates, cfg.Telegram.WebhookSecret)
	handler.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if updateWorker != nil {
		updateWorker.Stop()
	}

	logger.Info("Server exited")
}
