// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"gavel/internal/cache"
	"gavel/internal/models"
	"gavel/internal/search"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// auctionAggregates projects the denormalized bid aggregates alongside the
// auction row in a single query. last_bid_at backs the BIDS_* sort keys.
const auctionAggregates = "auctions.*, " +
	"(SELECT COUNT(*) FROM bids WHERE bids.auction_id = auctions.id) AS num_bids, " +
	"(SELECT COALESCE(MAX(bids.amount), 0) FROM bids WHERE bids.auction_id = auctions.id) AS highest_bid, " +
	"(SELECT MAX(bids.timestamp) FROM bids WHERE bids.auction_id = auctions.id) AS last_bid_at"

// AuctionRepository defines the interface for auction data operations
type AuctionRepository interface {
	Create(ctx context.Context, auction *models.Auction) error
	GetByID(ctx context.Context, id uint) (*models.Auction, error)
	TitleExists(ctx context.Context, title string, excludeID uint) (bool, error)
	Search(ctx context.Context, q search.Query) ([]*models.Auction, int64, error)
	// Update persists the mutable auction fields. Returns ErrFrozen when the
	// auction already has a bid.
	Update(ctx context.Context, auction *models.Auction) error
	// Delete removes an auction. Returns ErrFrozen when the auction already
	// has a bid.
	Delete(ctx context.Context, id uint) error
	UpdateImageFilename(ctx context.Context, id uint, filename string) error
}

type auctionRepository struct {
	db    *gorm.DB
	guard LifecycleGuard
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	err := r.db.WithContext(ctx).Create(auction).Error
	if err == nil {
		cache.InvalidateAuctionList(ctx)
	}
	return err
}

func (r *auctionRepository) GetByID(ctx context.Context, id uint) (*models.Auction, error) {
	var auction models.Auction
	err := cache.Aside(ctx, cache.AuctionKey(id), &auction, cache.AuctionTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Auction{}).
			Select(auctionAggregates).
			Preload("Seller").
			Preload("Category").
			First(&auction, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

func (r *auctionRepository) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("title = ?", title)
	if excludeID != 0 {
		db = db.Where("id != ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

// searchPage is the cacheable unit of a search: one page of results plus the
// pre-pagination total.
type searchPage struct {
	Auctions []*models.Auction `json:"auctions"`
	Total    int64             `json:"total"`
}

// Search executes a validated query: filter, aggregate, sort, then paginate.
// The returned total is the number of matches before pagination so clients
// can render page controls. Pages are cached under a key that embeds the
// current list version; writes bump the version rather than deleting keys.
func (r *auctionRepository) Search(ctx context.Context, q search.Query) ([]*models.Auction, int64, error) {
	var page searchPage
	key := cache.AuctionSearchKey(ctx, q.Fingerprint())
	err := cache.Aside(ctx, key, &page, cache.AuctionListTTL, func() error {
		counter := q.ApplyPredicates(r.db.WithContext(ctx).Model(&models.Auction{}))
		if err := counter.Count(&page.Total).Error; err != nil {
			return err
		}

		db := r.db.WithContext(ctx).
			Model(&models.Auction{}).
			Select(auctionAggregates).
			Preload("Seller").
			Preload("Category")
		db = q.ApplyPredicates(db)
		db = db.Order(q.Sort.OrderClause())
		db = q.ApplyPagination(db)
		return db.Find(&page.Auctions).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Auctions, page.Total, nil
}

// Update locks the auction row before consulting the lifecycle guard. The
// lock serializes against concurrent bid placement, which locks the same
// row, so a first bid and an update cannot both succeed.
func (r *auctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&current, auction.ID).Error; err != nil {
			return err
		}
		if err := r.guard.CheckMutable(tx, auction.ID); err != nil {
			return err
		}
		return tx.Model(&models.Auction{ID: auction.ID}).
			Select("title", "description", "category_id", "reserve", "end_date").
			Updates(map[string]any{
				"title":       auction.Title,
				"description": auction.Description,
				"category_id": auction.CategoryID,
				"reserve":     auction.Reserve,
				"end_date":    auction.EndDate,
			}).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateAuction(ctx, auction.ID)
	cache.InvalidateAuctionList(ctx)
	return nil
}

func (r *auctionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&current, id).Error; err != nil {
			return err
		}
		if err := r.guard.CheckMutable(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Auction{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateAuction(ctx, id)
	cache.InvalidateAuctionList(ctx)
	return nil
}

func (r *auctionRepository) UpdateImageFilename(ctx context.Context, id uint, filename string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ?", id).
		Update("image_filename", filename).Error
	if err == nil {
		cache.InvalidateAuction(ctx, id)
	}
	return err
}
