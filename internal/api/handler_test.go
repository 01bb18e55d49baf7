package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/store"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts map[string]*models.Product

func (s stubProducts) GetProduct(_ context.Context, catalog models.Catalog, id string) (*models.Product, error) {
	if p, ok := s[string(catalog)+"/"+id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", store.ErrProductNotFound, catalog, id)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type recordingUpdates struct {
	updates []tgbotapi.Update
	err     error
}

func (r *recordingUpdates) HandleUpdate(_ context.Context, u tgbotapi.Update) error {
	r.updates = append(r.updates, u)
	return r.err
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.SetupRoutes(r)
	return r
}

func products() stubProducts {
	return stubProducts{
		"inAppPurchases/pack1": {
			Catalog: models.CatalogInAppPurchases,
			ID:      "pack1",
			Name:    "500 Coins",
			Price:   decimal.RequireFromString("4.99"),
			Type:    models.ProductTypeCoins,
			Amount:  500,
		},
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(NewHandler(products(), stubPinger{}, nil, ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadyReflectsDatabase(t *testing.T) {
	r := newRouter(NewHandler(products(), stubPinger{}, nil, ""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r = newRouter(NewHandler(products(), stubPinger{err: errors.New("dial tcp: refused")}, nil, ""))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProductQuote(t *testing.T) {
	r := newRouter(NewHandler(products(), stubPinger{}, nil, ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/inAppPurchases/products/pack1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Product models.Product `json:"product"`
		Quote   models.Quote   `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "500 Coins", body.Product.Name)
	assert.Equal(t, models.Quote{Currency: "XTR", Amount: 564}, body.Quote)
}

func TestProductQuoteErrors(t *testing.T) {
	r := newRouter(NewHandler(products(), stubPinger{}, nil, ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/weapons/products/pack1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/stickerPacks/products/pack1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookRequiresSecret(t *testing.T) {
	updates := &recordingUpdates{}
	r := newRouter(NewHandler(products(), stubPinger{}, updates, "s3cret"))

	body := `{"update_id": 10, "message": {"message_id": 1, "date": 0, "chat": {"id": 5, "type": "private"}, "text": "/start"}}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath+"/wrong", strings.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, updates.updates)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, WebhookPath+"/s3cret", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, updates.updates, 1)
	assert.Equal(t, 10, updates.updates[0].UpdateID)
	assert.Equal(t, "/start", updates.updates[0].Message.Text)
}

func TestWebhookHandlerErrorStillAcknowledged(t *testing.T) {
	updates := &recordingUpdates{err: errors.New("db down")}
	r := newRouter(NewHandler(products(), stubPinger{}, updates, "s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath+"/s3cret", strings.NewReader(`{"update_id": 11}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookNotRegisteredInPollingMode(t *testing.T) {
	r := newRouter(NewHandler(products(), stubPinger{}, nil, ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath+"/anything", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookRejectsBadJSON(t *testing.T) {
	updates := &recordingUpdates{}
	r := newRouter(NewHandler(products(), stubPinger{}, updates, "s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath+"/s3cret", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, updates.updates)
}
