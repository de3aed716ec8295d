package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gavel/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumAuctions int
	// MaxDays bounds how far in the future generated closing times fall.
	MaxDays int
	// SkipBcrypt stores a plaintext placeholder password. Dev only.
	SkipBcrypt  bool
	ShouldClean bool
}

// categoryNames is the fixed reference taxonomy. Seeding is idempotent for
// categories: existing rows are reused by name.
var categoryNames = []string{
	"Antiques", "Art", "Books", "Clocks", "Coins", "Collectibles",
	"Electronics", "Furniture", "Jewelry", "Memorabilia", "Musical Instruments",
	"Photography", "Rugs", "Silverware", "Stamps", "Toys", "Watches", "Wine",
}

// Seed populates the database with demo users, categories, auctions and bids.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d auctions...", opts.NumUsers, opts.NumAuctions)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	categories, err := createOrGetCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("%d categories available", len(categories))

	auctions, err := createAuctions(factory, users, categories, opts.NumAuctions)
	if err != nil {
		return fmt.Errorf("failed to create auctions: %w", err)
	}
	log.Printf("%d auctions created", len(auctions))

	bids, err := createBids(factory, users, auctions)
	if err != nil {
		return fmt.Errorf("failed to create bids: %w", err)
	}
	log.Printf("%d bids created", bids)

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Children first so foreign keys stay satisfied.
	for _, model := range []any{&models.Bid{}, &models.Auction{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(factory *Factory, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createOrGetCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		var category models.Category
		err := db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, nil
}

func createAuctions(factory *Factory, users []*models.User, categories []*models.Category, n int) ([]*models.Auction, error) {
	if len(users) == 0 || len(categories) == 0 {
		return nil, nil
	}
	auctions := make([]*models.Auction, 0, n)
	for i := 0; i < n; i++ {
		seller := users[rand.Intn(len(users))]
		category := categories[rand.Intn(len(categories))]
		auction, err := factory.CreateAuction(seller, category)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	return auctions, nil
}

// createBids gives roughly two thirds of the auctions a short escalating bid
// history from non-seller users. Amounts strictly increase within an auction
// so the seeded ledger matches what the conditional insert would have
// accepted.
func createBids(factory *Factory, users []*models.User, auctions []*models.Auction) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	total := 0
	for _, auction := range auctions {
		if rand.Intn(3) == 0 {
			continue
		}
		amount := auction.Reserve
		placedAt := time.Now().Add(-time.Duration(rand.Intn(72)+1) * time.Hour)
		for i := 0; i < rand.Intn(5)+1; i++ {
			bidder := users[rand.Intn(len(users))]
			if bidder.ID == auction.SellerID {
				continue
			}
			amount += rand.Intn(100) + 1
			placedAt = placedAt.Add(time.Duration(rand.Intn(50)+1) * time.Minute)
			if _, err := factory.CreateBid(auction, bidder, amount, placedAt); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
