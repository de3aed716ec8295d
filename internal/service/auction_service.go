// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gavel/internal/models"
	"gavel/internal/observability"
	"gavel/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen       = 300
	maxDescriptionLen = 10000
)

// auctionEvents is the slice of the notifier the auction service needs.
type auctionEvents interface {
	PublishAuctionCreated(ctx context.Context, auctionID uint, title string) error
}

type AuctionService struct {
	auctionRepo  repository.AuctionRepository
	categoryRepo repository.CategoryRepository
	events       auctionEvents
}

type CreateAuctionInput struct {
	SellerID    uint
	Title       string
	Description string
	CategoryID  uint
	Reserve     int
	EndDate     time.Time
}

// UpdateAuctionInput carries a partial update. Nil or zero fields keep their
// current value.
type UpdateAuctionInput struct {
	UserID      uint
	AuctionID   uint
	Title       string
	Description *string
	CategoryID  *uint
	Reserve     *int
	EndDate     *time.Time
}

type DeleteAuctionInput struct {
	UserID    uint
	AuctionID uint
}

func NewAuctionService(
	auctionRepo repository.AuctionRepository,
	categoryRepo repository.CategoryRepository,
	events auctionEvents,
) *AuctionService {
	return &AuctionService{
		auctionRepo:  auctionRepo,
		categoryRepo: categoryRepo,
		events:       events,
	}
}

func (s *AuctionService) CreateAuction(ctx context.Context, in CreateAuctionInput) (*models.Auction, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", maxTitleLen))
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError(fmt.Sprintf("Description too long (max %d characters)", maxDescriptionLen))
	}
	if in.Reserve < 1 {
		return nil, models.NewValidationError("Reserve must be at least 1")
	}
	if !in.EndDate.After(time.Now()) {
		return nil, models.NewValidationError("End date must be in the future")
	}

	exists, err := s.categoryRepo.Exists(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewValidationError(fmt.Sprintf("Category %d does not exist", in.CategoryID))
	}

	taken, err := s.auctionRepo.TitleExists(ctx, title, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("An auction with this title already exists")
	}

	auction := &models.Auction{
		Title:       title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		SellerID:    in.SellerID,
		Reserve:     in.Reserve,
		EndDate:     in.EndDate,
	}
	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		// The TitleExists check cannot see a concurrent create; the unique
		// index is the authority when two identical titles race.
		return nil, s.mapMutationError(err, 0)
	}
	observability.AuctionsCreated.Inc()

	if s.events != nil {
		if err := s.events.PublishAuctionCreated(ctx, auction.ID, auction.Title); err != nil {
			slog.WarnContext(ctx, "auction created event not published",
				"auction_id", auction.ID, "error", err)
		}
	}

	return s.GetAuction(ctx, auction.ID)
}

func (s *AuctionService) GetAuction(ctx context.Context, id uint) (*models.Auction, error) {
	auction, err := s.auctionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Auction", id)
		}
		return nil, err
	}
	return auction, nil
}

func (s *AuctionService) UpdateAuction(ctx context.Context, in UpdateAuctionInput) (*models.Auction, error) {
	auction, err := s.GetAuction(ctx, in.AuctionID)
	if err != nil {
		return nil, err
	}
	if auction.SellerID != in.UserID {
		return nil, models.NewConflictError("Only the seller may modify this auction")
	}

	if in.Title != "" {
		title := strings.TrimSpace(in.Title)
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", maxTitleLen))
		}
		taken, err := s.auctionRepo.TitleExists(ctx, title, auction.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("An auction with this title already exists")
		}
		auction.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > maxDescriptionLen {
			return nil, models.NewValidationError(fmt.Sprintf("Description too long (max %d characters)", maxDescriptionLen))
		}
		auction.Description = *in.Description
	}
	if in.CategoryID != nil {
		exists, err := s.categoryRepo.Exists(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.NewValidationError(fmt.Sprintf("Category %d does not exist", *in.CategoryID))
		}
		auction.CategoryID = *in.CategoryID
	}
	if in.Reserve != nil {
		if *in.Reserve < 1 {
			return nil, models.NewValidationError("Reserve must be at least 1")
		}
		auction.Reserve = *in.Reserve
	}
	if in.EndDate != nil {
		if !in.EndDate.After(time.Now()) {
			return nil, models.NewValidationError("End date must be in the future")
		}
		auction.EndDate = *in.EndDate
	}

	if err := s.auctionRepo.Update(ctx, auction); err != nil {
		return nil, s.mapMutationError(err, in.AuctionID)
	}
	return s.GetAuction(ctx, in.AuctionID)
}

func (s *AuctionService) DeleteAuction(ctx context.Context, in DeleteAuctionInput) error {
	auction, err := s.GetAuction(ctx, in.AuctionID)
	if err != nil {
		return err
	}
	if auction.SellerID != in.UserID {
		return models.NewConflictError("Only the seller may delete this auction")
	}

	if err := s.auctionRepo.Delete(ctx, in.AuctionID); err != nil {
		return s.mapMutationError(err, in.AuctionID)
	}
	return nil
}

func (s *AuctionService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// mapMutationError translates repository sentinels from guarded mutations
// onto the public error set.
func (s *AuctionService) mapMutationError(err error, auctionID uint) error {
	switch {
	case errors.Is(err, repository.ErrFrozen):
		return models.NewConflictError("No changes may be made to an auction after a bid has been placed")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError("An auction with this title already exists")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError("Auction", auctionID)
	default:
		return err
	}
}
