package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// AuctionTTL bounds staleness of a cached auction detail. Writes
	// invalidate eagerly, the TTL is a backstop.
	AuctionTTL = 5 * time.Minute
	// CategoriesTTL is long because categories are seeded reference data.
	CategoriesTTL = time.Hour
	// AuctionListTTL bounds staleness of a cached search page. The list
	// version counter is the primary invalidation mechanism; the TTL keeps
	// superseded pages from lingering forever.
	AuctionListTTL = time.Minute
)

// AuctionKey returns the cache key for a single auction with its bid
// aggregates.
func AuctionKey(id uint) string {
	return fmt.Sprintf("auction:%d", id)
}

// CategoriesKey returns the cache key for the full category list.
func CategoriesKey() string {
	return "categories:all"
}

// auctionListVersionKey tracks a version counter for search results. Bumping
// it implicitly drops every cached list without a SCAN.
const auctionListVersionKey = "auctions:list:version"

// AuctionSearchKey returns the cache key for one page of search results. The
// key embeds the current list version, so a bump on any auction or bid write
// makes every previously cached page unaddressable.
func AuctionSearchKey(ctx context.Context, fingerprint string) string {
	var version int64
	if client != nil {
		if v, err := client.Get(ctx, auctionListVersionKey).Int64(); err == nil {
			version = v
		}
	}
	return fmt.Sprintf("auctions:list:v%d:%s", version, fingerprint)
}

// Aside implements the cache-aside pattern: on a hit, dest is filled from the
// cached JSON; on a miss, fill is invoked and its result is cached with the
// given TTL. Cache failures degrade to calling fill, they are never surfaced.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client == nil {
		return fill()
	}

	cached, err := client.Get(ctx, key).Result()
	if err == nil {
		if uerr := json.Unmarshal([]byte(cached), dest); uerr == nil {
			return nil
		}
		// Corrupt entry, drop it and fall through to the source of truth.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	if err := fill(); err != nil {
		return err
	}

	if data, merr := json.Marshal(dest); merr == nil {
		if serr := client.Set(ctx, key, data, ttl).Err(); serr != nil {
			slog.WarnContext(ctx, "cache write failed", "key", key, "error", serr)
		}
	}
	return nil
}

// Invalidate removes the given keys. Safe to call with no Redis client.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}

// InvalidateAuction drops the cached detail for one auction.
func InvalidateAuction(ctx context.Context, id uint) {
	Invalidate(ctx, AuctionKey(id))
}

// InvalidateAuctionList bumps the list version so stale search results are
// no longer addressable.
func InvalidateAuctionList(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Incr(ctx, auctionListVersionKey).Err(); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "key", auctionListVersionKey, "error", err)
	}
}
