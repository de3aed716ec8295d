package service

import (
	"context"
	"time"

	"gavel/internal/models"
	"gavel/internal/search"
)

// Function-field stubs keep each test's behavior next to its assertions.

type stubAuctionRepo struct {
	createFn              func(ctx context.Context, auction *models.Auction) error
	getByIDFn             func(ctx context.Context, id uint) (*models.Auction, error)
	titleExistsFn         func(ctx context.Context, title string, excludeID uint) (bool, error)
	searchFn              func(ctx context.Context, q search.Query) ([]*models.Auction, int64, error)
	updateFn              func(ctx context.Context, auction *models.Auction) error
	deleteFn              func(ctx context.Context, id uint) error
	updateImageFilenameFn func(ctx context.Context, id uint, filename string) error
}

func (s *stubAuctionRepo) Create(ctx context.Context, auction *models.Auction) error {
	return s.createFn(ctx, auction)
}

func (s *stubAuctionRepo) GetByID(ctx context.Context, id uint) (*models.Auction, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubAuctionRepo) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	if s.titleExistsFn == nil {
		return false, nil
	}
	return s.titleExistsFn(ctx, title, excludeID)
}

func (s *stubAuctionRepo) Search(ctx context.Context, q search.Query) ([]*models.Auction, int64, error) {
	return s.searchFn(ctx, q)
}

func (s *stubAuctionRepo) Update(ctx context.Context, auction *models.Auction) error {
	return s.updateFn(ctx, auction)
}

func (s *stubAuctionRepo) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAuctionRepo) UpdateImageFilename(ctx context.Context, id uint, filename string) error {
	return s.updateImageFilenameFn(ctx, id, filename)
}

type stubCategoryRepo struct {
	listFn       func(ctx context.Context) ([]models.Category, error)
	existsFn     func(ctx context.Context, id uint) (bool, error)
	missingIDsFn func(ctx context.Context, ids []uint) ([]uint, error)
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}

func (s *stubCategoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	if s.existsFn == nil {
		return true, nil
	}
	return s.existsFn(ctx, id)
}

func (s *stubCategoryRepo) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if s.missingIDsFn == nil {
		return nil, nil
	}
	return s.missingIDsFn(ctx, ids)
}

type stubBidRepo struct {
	listByAuctionFn  func(ctx context.Context, auctionID uint) ([]models.Bid, error)
	countByAuctionFn func(ctx context.Context, auctionID uint) (int64, error)
	highestAmountFn  func(ctx context.Context, auctionID uint) (int, error)
	placeFn          func(ctx context.Context, bid *models.Bid) (bool, error)
}

func (s *stubBidRepo) ListByAuction(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	return s.listByAuctionFn(ctx, auctionID)
}

func (s *stubBidRepo) CountByAuction(ctx context.Context, auctionID uint) (int64, error) {
	return s.countByAuctionFn(ctx, auctionID)
}

func (s *stubBidRepo) HighestAmount(ctx context.Context, auctionID uint) (int, error) {
	return s.highestAmountFn(ctx, auctionID)
}

func (s *stubBidRepo) Place(ctx context.Context, bid *models.Bid) (bool, error) {
	return s.placeFn(ctx, bid)
}

type stubUserRepo struct {
	createFn      func(ctx context.Context, user *models.User) error
	getByIDFn     func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn  func(ctx context.Context, email string) (*models.User, error)
	emailExistsFn func(ctx context.Context, email string) (bool, error)
	updateFn      func(ctx context.Context, user *models.User) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, user)
}

func (s *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if s.emailExistsFn == nil {
		return false, nil
	}
	return s.emailExistsFn(ctx, email)
}

type recordedEvents struct {
	auctions []uint
	bids     []uint
}

func (r *recordedEvents) PublishAuctionCreated(_ context.Context, auctionID uint, _ string) error {
	r.auctions = append(r.auctions, auctionID)
	return nil
}

func (r *recordedEvents) PublishBidPlaced(_ context.Context, auctionID, _ uint, _ int, _ time.Time) error {
	r.bids = append(r.bids, auctionID)
	return nil
}
