// Package notifications publishes marketplace events into Redis channels so
// downstream consumers (mailers, feeds, future realtime surfaces) can react
// without coupling to the request path.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ChannelAuctionCreated carries newly listed auctions.
	ChannelAuctionCreated = "auctions:created"
	// bidChannelPrefix scopes bid events per auction.
	bidChannelPrefix = "auctions:bids:"
)

// BidChannel derives the Redis channel name for an auction's bid events.
func BidChannel(auctionID uint) string {
	return bidChannelPrefix + strconv.FormatUint(uint64(auctionID), 10)
}

// Notifier provides helpers to publish marketplace events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishAuctionCreated announces a new listing. A nil receiver or nil Redis
// client makes this a no-op so the request path never depends on Redis
// availability.
func (n *Notifier) PublishAuctionCreated(ctx context.Context, auctionID uint, title string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"auction_id": auctionID,
		"title":      title,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, ChannelAuctionCreated, payload).Err()
}

// PublishBidPlaced announces an accepted bid on the auction's channel.
func (n *Notifier) PublishBidPlaced(
	ctx context.Context, auctionID, bidderID uint, amount int, placedAt time.Time,
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"amount":     amount,
		"placed_at":  placedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, BidChannel(auctionID), payload).Err()
}

// StartSubscriber subscribes to every marketplace event channel and calls
// onMessage for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, ChannelAuctionCreated, bidChannelPrefix+"*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in event subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
