package service

import (
	"context"
	"time"

	"rewardplay-bot/internal/models"
	"rewardplay-bot/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CatalogClient resolves products through the cache, falling back to the
// store. Cache errors never fail a lookup.
type CatalogClient struct {
	store  ProductStore
	cache  ProductCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogClient creates a catalog client. cache may be nil.
func NewCatalogClient(store ProductStore, cache ProductCache, ttl time.Duration) *CatalogClient {
	return &CatalogClient{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// GetProduct retrieves a product, serving from cache when possible
func (cc *CatalogClient) GetProduct(ctx context.Context, catalog models.Catalog, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogClient.GetProduct",
		attribute.String("catalog", string(catalog)),
		attribute.String("product_id", id))
	defer span.End()

	if cc.cache == nil {
		return cc.store.GetProduct(ctx, catalog, id)
	}

	product, found, err := cc.cache.GetProduct(ctx, catalog, id)
	switch {
	case err != nil:
		util.ProductCacheTotal.WithLabelValues("error").Inc()
		cc.logger.Warn("Product cache lookup failed, falling back to store",
			zap.String("catalog", string(catalog)),
			zap.String("product_id", id),
			zap.Error(err))
	case found:
		util.ProductCacheTotal.WithLabelValues("hit").Inc()
		return product, nil
	default:
		util.ProductCacheTotal.WithLabelValues("miss").Inc()
	}

	product, err = cc.store.GetProduct(ctx, catalog, id)
	if err != nil {
		return nil, err
	}

	if err := cc.cache.SetProduct(ctx, product, cc.ttl); err != nil {
		cc.logger.Warn("Failed to cache product",
			zap.String("catalog", string(catalog)),
			zap.String("product_id", id),
			zap.Error(err))
	}
	return product, nil
}
