package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/service"
	"rewardplay-bot/internal/store"
	"rewardplay-bot/internal/util"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// WebhookPath is the route Telegram posts updates to. The last segment
// must match the configured secret.
const WebhookPath = "/telegram/webhook"

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpdateHandler consumes a decoded Telegram update
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// Handler contains HTTP handlers
type Handler struct {
	products      service.ProductStore
	db            Pinger
	updates       UpdateHandler
	webhookSecret string
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler. updates may be nil, in which case
// the webhook route is not registered.
func NewHandler(products service.ProductStore, db Pinger, updates UpdateHandler, webhookSecret string) *Handler {
	return &Handler{
		products:      products,
		db:            db,
		updates:       updates,
		webhookSecret: webhookSecret,
		logger:        util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.updates != nil {
		router.POST(WebhookPath+"/:secret", h.telegramWebhook)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalogs/:catalog/products/:id", h.getProductQuote)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the database answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// telegramWebhook receives updates pushed by Telegram
func (h *Handler) telegramWebhook(c *gin.Context) {
	secret := c.Param("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		c.Status(http.StatusNotFound)
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid update body",
			"details": err.Error(),
		})
		return
	}

	// Telegram redelivers on non-2xx, so handler failures are only logged
	if err := h.updates.HandleUpdate(c.Request.Context(), update); err != nil {
		h.logger.Error("Error handling webhook update",
			zap.Int("update_id", update.UpdateID),
			zap.Error(err))
	}

	c.Status(http.StatusOK)
}

// getProductQuote returns a product with its invoice price
func (h *Handler) getProductQuote(c *gin.Context) {
	catalog := models.Catalog(c.Param("catalog"))
	if !catalog.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase type",
		})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), catalog, c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"quote":   service.QuoteProduct(product),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
