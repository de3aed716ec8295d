package models

import (
	"time"
)

// Bid is an append-only monetary offer against an auction. Bids are never
// updated or deleted; the highest accepted amount defines the auction's
// current price.
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuctionID uint      `gorm:"not null;index" json:"auction_id"`
	BidderID  uint      `gorm:"not null;index" json:"bidder_id"`
	Bidder    *User     `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
	Amount    int       `gorm:"not null" json:"amount"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
