// Package seed provides helpers to create demo data for the marketplace
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"time"

	"gavel/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.PasswordHash = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.PasswordHash = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAuction constructs and persists an auction owned by the given seller.
// Titles get a unique suffix so repeated seeding does not trip the title
// uniqueness constraint.
func (f *Factory) CreateAuction(seller *models.User, category *models.Category, overrides ...func(*models.Auction)) (*models.Auction, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 14
	}

	auction := &models.Auction{
		Title:       fmt.Sprintf("%s %s #%d", gofakeit.AdjectiveDescriptive(), gofakeit.ProductName(), gofakeit.Number(100, 99999)),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		CategoryID:  category.ID,
		SellerID:    seller.ID,
		Reserve:     gofakeit.Number(10, 5000),
		EndDate:     time.Now().Add(time.Duration(gofakeit.Number(1, maxDays*24)) * time.Hour),
	}

	for _, override := range overrides {
		override(auction)
	}

	if err := f.db.Create(auction).Error; err != nil {
		return nil, err
	}
	return auction, nil
}

// CreateBid appends a bid to the auction's ledger. The caller is responsible
// for keeping amounts strictly increasing per auction; the factory writes
// directly and bypasses the conditional insert.
func (f *Factory) CreateBid(auction *models.Auction, bidder *models.User, amount int, placedAt time.Time) (*models.Bid, error) {
	bid := &models.Bid{
		AuctionID: auction.ID,
		BidderID:  bidder.ID,
		Amount:    amount,
		Timestamp: placedAt,
	}
	if err := f.db.Create(bid).Error; err != nil {
		return nil, err
	}
	return bid, nil
}
