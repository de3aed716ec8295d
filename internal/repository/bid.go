package repository

import (
	"context"

	"gavel/internal/cache"
	"gavel/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BidRepository is the append-only bid ledger. Bids are inserted and read,
// never updated or deleted.
type BidRepository interface {
	ListByAuction(ctx context.Context, auctionID uint) ([]models.Bid, error)
	CountByAuction(ctx context.Context, auctionID uint) (int64, error)
	HighestAmount(ctx context.Context, auctionID uint) (int, error)
	// Place atomically appends a bid iff its amount is strictly greater than
	// every accepted bid for the auction. Returns false when the ledger
	// already holds an equal or higher amount. Returns gorm.ErrRecordNotFound
	// when the auction does not exist.
	Place(ctx context.Context, bid *models.Bid) (bool, error)
}

type bidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) ListByAuction(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("amount DESC, timestamp DESC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *bidRepository) CountByAuction(ctx context.Context, auctionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Count(&count).Error
	return count, err
}

func (r *bidRepository) HighestAmount(ctx context.Context, auctionID uint) (int, error) {
	var highest int
	err := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Select("COALESCE(MAX(amount), 0)").
		Scan(&highest).Error
	return highest, err
}

// Place runs the accept/reject decision and the insert as one indivisible
// store operation. The auction row is locked first so concurrent writers for
// the same auction serialize, then a conditional INSERT ... SELECT admits the
// bid only if no accepted bid has an equal or greater amount. A plain
// read-then-insert here would let two equal bids both pass the check.
func (r *bidRepository) Place(ctx context.Context, bid *models.Bid) (bool, error) {
	var accepted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var auction models.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&auction, bid.AuctionID).Error; err != nil {
			return err
		}

		res := tx.Exec(
			`INSERT INTO bids (auction_id, bidder_id, amount, timestamp)
			 SELECT ?, ?, ?, ?
			 WHERE NOT EXISTS (
			     SELECT 1 FROM bids
			     WHERE bids.auction_id = ? AND bids.amount >= ?
			 )`,
			bid.AuctionID, bid.BidderID, bid.Amount, bid.Timestamp,
			bid.AuctionID, bid.Amount,
		)
		if res.Error != nil {
			return res.Error
		}
		accepted = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	if accepted {
		cache.InvalidateAuction(ctx, bid.AuctionID)
		cache.InvalidateAuctionList(ctx)
	}
	return accepted, nil
}
