package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"rewardplay-bot/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests; they need a disposable PostgreSQL database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - set TEST_DATABASE_URL")
	}

	s, err := NewStore(url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedUser(t *testing.T, s *Store, coins int64) string {
	t.Helper()
	id := uuid.New().String()
	_, err := s.db.Exec("INSERT INTO users (id, coins) VALUES ($1, $2)", id, coins)
	require.NoError(t, err)
	return id
}

func TestGetProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := "pack-" + uuid.New().String()[:8]
	_, err := s.db.Exec(`INSERT INTO products (catalog, id, name, price, type, amount)
		VALUES ($1, $2, '500 Coins', 4.99, 'coins', 500)`, models.CatalogInAppPurchases, id)
	require.NoError(t, err)

	p, err := s.GetProduct(ctx, models.CatalogInAppPurchases, id)
	require.NoError(t, err)
	assert.Equal(t, "500 Coins", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("4.99")))
	assert.Equal(t, int64(500), p.Amount)

	_, err = s.GetProduct(ctx, models.CatalogStickerPacks, id)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestIncrementCoins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, 100)

	require.NoError(t, s.IncrementCoins(ctx, userID, 500))

	user, err := s.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), user.Coins)

	assert.ErrorIs(t, s.IncrementCoins(ctx, "missing-"+userID, 1), ErrUserNotFound)
}

func TestIncrementPurchasedSpinsCreatesRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, 0)

	require.NoError(t, s.IncrementPurchasedSpins(ctx, userID, 5))
	require.NoError(t, s.IncrementPurchasedSpins(ctx, userID, 3))

	data, err := s.GetSpinData(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), data.PurchasedSpinsRemaining)
}

func TestDebitCoinsIfSufficient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poor := seedUser(t, s, 150)
	ok, err := s.DebitCoinsIfSufficient(ctx, poor, 200)
	require.NoError(t, err)
	assert.False(t, ok)
	user, _ := s.GetUser(ctx, poor)
	assert.Equal(t, int64(150), user.Coins)

	rich := seedUser(t, s, 250)
	ok, err = s.DebitCoinsIfSufficient(ctx, rich, 200)
	require.NoError(t, err)
	assert.True(t, ok)
	user, _ = s.GetUser(ctx, rich)
	assert.Equal(t, int64(50), user.Coins)
}

func TestDebitCoinsConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, 300)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.DebitCoinsIfSufficient(ctx, userID, 200)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	user, _ := s.GetUser(ctx, userID)
	assert.Equal(t, int64(100), user.Coins)
}

func TestClaimPaymentIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &models.PaymentRecord{
		ChargeID:    "charge-" + uuid.New().String(),
		UserID:      "42",
		Catalog:     string(models.CatalogInAppPurchases),
		ProductID:   "pack1",
		Currency:    models.CurrencyStars,
		TotalAmount: 564,
		Status:      models.PaymentStatusReceived,
	}

	first, err := s.ClaimPayment(ctx, rec)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := s.ClaimPayment(ctx, rec)
	require.NoError(t, err)
	assert.False(t, second)

	require.NoError(t, s.UpdatePaymentStatus(ctx, rec.ChargeID, models.PaymentStatusGranted))
	got, err := s.GetPayment(ctx, rec.ChargeID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusGranted, got.Status)
}
