package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arbworks/crossbook/internal/domain"
)

// quoteTTL expires quotes that stop being refreshed so dashboards never show
// a dead market as live.
const quoteTTL = 5 * time.Minute

// QuoteCache implements domain.QuoteCache with one JSON value per venue per
// market.
//
// Key schema:
//
//	quote:{venue}:{marketID} - JSON-encoded domain.Quote, TTL 5m
type QuoteCache struct {
	rdb *redis.Client
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying()}
}

func quoteKey(venue, marketID string) string {
	return "quote:" + venue + ":" + marketID
}

// SetQuote stores the venue's latest best asks for a market.
func (qc *QuoteCache) SetQuote(ctx context.Context, venue, marketID string, q domain.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("redis: marshal quote: %w", err)
	}
	if err := qc.rdb.Set(ctx, quoteKey(venue, marketID), data, quoteTTL).Err(); err != nil {
		return fmt.Errorf("redis: set quote %s/%s: %w", venue, marketID, err)
	}
	return nil
}

// GetQuote retrieves the cached quote. It returns domain.ErrNotFound when
// the key is absent or expired.
func (qc *QuoteCache) GetQuote(ctx context.Context, venue, marketID string) (domain.Quote, error) {
	data, err := qc.rdb.Get(ctx, quoteKey(venue, marketID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Quote{}, domain.ErrNotFound
		}
		return domain.Quote{}, fmt.Errorf("redis: get quote %s/%s: %w", venue, marketID, err)
	}

	var q domain.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.Quote{}, fmt.Errorf("redis: unmarshal quote %s/%s: %w", venue, marketID, err)
	}
	return q, nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
