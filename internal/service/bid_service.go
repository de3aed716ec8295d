package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gavel/internal/models"
	"gavel/internal/observability"
	"gavel/internal/repository"

	"gorm.io/gorm"
)

// bidEvents is the slice of the notifier the bid service needs.
type bidEvents interface {
	PublishBidPlaced(ctx context.Context, auctionID, bidderID uint, amount int, placedAt time.Time) error
}

type BidService struct {
	bidRepo     repository.BidRepository
	auctionRepo repository.AuctionRepository
	events      bidEvents
	now         func() time.Time
}

type PlaceBidInput struct {
	AuctionID uint
	BidderID  uint
	Amount    int
}

func NewBidService(
	bidRepo repository.BidRepository,
	auctionRepo repository.AuctionRepository,
	events bidEvents,
) *BidService {
	return &BidService{
		bidRepo:     bidRepo,
		auctionRepo: auctionRepo,
		events:      events,
		now:         time.Now,
	}
}

// PlaceBid appends a bid to the auction's ledger. Preconditions are checked
// in a fixed order: the auction must exist, the amount must be positive, and
// the amount must beat the current highest bid. The last check and the
// insert happen atomically in the repository, so two racing equal bids
// cannot both win.
func (s *BidService) PlaceBid(ctx context.Context, in PlaceBidInput) (*models.Bid, error) {
	if _, err := s.auctionRepo.GetByID(ctx, in.AuctionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.BidsRejected.WithLabelValues("auction_not_found").Inc()
			return nil, models.NewNotFoundError("Auction", in.AuctionID)
		}
		return nil, err
	}

	if in.Amount <= 0 {
		observability.BidsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, models.NewValidationError("Bid amount must be a positive integer")
	}

	bid := &models.Bid{
		AuctionID: in.AuctionID,
		BidderID:  in.BidderID,
		Amount:    in.Amount,
		Timestamp: s.now().UTC(),
	}

	accepted, err := s.bidRepo.Place(ctx, bid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Auction deleted between the existence check and the insert.
			observability.BidsRejected.WithLabelValues("auction_not_found").Inc()
			return nil, models.NewNotFoundError("Auction", in.AuctionID)
		}
		return nil, err
	}
	if !accepted {
		observability.BidsRejected.WithLabelValues("too_low").Inc()
		return nil, models.NewConflictError("Bid must be higher than the current highest bid")
	}

	observability.BidsAccepted.Inc()

	if s.events != nil {
		if err := s.events.PublishBidPlaced(ctx, bid.AuctionID, bid.BidderID, bid.Amount, bid.Timestamp); err != nil {
			slog.WarnContext(ctx, "bid placed event not published",
				"auction_id", bid.AuctionID, "error", err)
		}
	}

	return bid, nil
}

// ListBids returns the auction's bids with bidder identities, highest amount
// first and most recent first among equal amounts.
func (s *BidService) ListBids(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	if _, err := s.auctionRepo.GetByID(ctx, auctionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Auction", auctionID)
		}
		return nil, err
	}
	return s.bidRepo.ListByAuction(ctx, auctionID)
}
