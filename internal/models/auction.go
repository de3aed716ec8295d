package models

import (
	"time"
)

// Auction represents a sellable listing with a closing time. The seller is
// fixed at creation; all other fields are mutable only while the auction has
// no bids.
type Auction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SellerID    uint      `gorm:"not null;index" json:"seller_id"`
	Seller      *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	// Reserve is the seller's minimum price. It is stored and returned but
	// never compared against bids.
	Reserve       int    `gorm:"not null;default:1" json:"reserve"`
	EndDate       time.Time `gorm:"not null;index" json:"end_date"`
	ImageFilename string    `json:"-"`
	// NumBids is not persisted; computed at query time from the bid ledger
	NumBids int `gorm:"->" json:"num_bids"`
	// HighestBid is not persisted; computed at query time (0 when no bids)
	HighestBid int `gorm:"->" json:"highest_bid"`
	// LastBidAt is not persisted; timestamp of the most recent bid, nil when none
	LastBidAt *time.Time `gorm:"->" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Closed reports whether the auction has entered its frozen state. An auction
// with at least one bid accepts no further mutation or deletion; the passing
// of EndDate does not affect this.
func (a *Auction) Closed() bool {
	return a.NumBids >= 1
}
