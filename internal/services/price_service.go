// internal/services/price_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/providers/pricefeed"
)

type PriceService struct {
	feed   pricefeed.Client
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewPriceService(cfg *config.Config, feed pricefeed.Client, rdb *redis.Client, logger *logrus.Logger) *PriceService {
	return &PriceService{
		feed:   feed,
		redis:  rdb,
		ttl:    time.Duration(cfg.PriceFeed.CacheTTL) * time.Second,
		logger: logger,
	}
}

func priceCacheKey(mint string) string {
	return "price:" + mint
}

// GetTokenPrice serves the aggregator quote through a short-lived redis
// cache. Upstream failures degrade to a zero quote instead of an error
// so price display never breaks the page.
func (s *PriceService) GetTokenPrice(ctx context.Context, mint string) *pricefeed.TokenPrice {
	if cached := s.fromCache(ctx, mint); cached != nil {
		return cached
	}

	price, err := s.feed.GetTokenPrice(ctx, mint)
	if err != nil {
		s.logger.WithError(err).WithField("mint", mint).Warn("price lookup failed")
		return &pricefeed.TokenPrice{MintAddress: mint}
	}

	s.toCache(ctx, mint, price)
	return price
}

func (s *PriceService) fromCache(ctx context.Context, mint string) *pricefeed.TokenPrice {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, priceCacheKey(mint)).Bytes()
	if err != nil {
		return nil
	}

	var price pricefeed.TokenPrice
	if err := json.Unmarshal(raw, &price); err != nil {
		return nil
	}
	return &price
}

func (s *PriceService) toCache(ctx context.Context, mint string, price *pricefeed.TokenPrice) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(price)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, priceCacheKey(mint), raw, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Warn(fmt.Sprintf("failed to cache price for %s", mint))
	}
}
