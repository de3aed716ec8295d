package repository

import (
	"testing"
	"time"

	"gavel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMutable(t *testing.T) {
	db := setupSQLiteDB(t)
	var guard LifecycleGuard

	require.NoError(t, db.Create(&models.User{FirstName: "Sal", LastName: "Seller", Email: "sal@example.com", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "Clocks"}).Error)
	require.NoError(t, db.Create(&models.Auction{
		Title: "Longcase clock", CategoryID: 1, SellerID: 1,
		Reserve: 100, EndDate: time.Now().Add(48 * time.Hour),
	}).Error)

	t.Run("mutable while no bids", func(t *testing.T) {
		assert.NoError(t, guard.CheckMutable(db, 1))
	})

	t.Run("frozen after the first bid", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Bid{
			AuctionID: 1, BidderID: 1, Amount: 150, Timestamp: time.Now().UTC(),
		}).Error)
		assert.ErrorIs(t, guard.CheckMutable(db, 1), ErrFrozen)
	})

	t.Run("other auctions unaffected", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Auction{
			Title: "Carriage clock", CategoryID: 1, SellerID: 1,
			Reserve: 100, EndDate: time.Now().Add(48 * time.Hour),
		}).Error)
		assert.NoError(t, guard.CheckMutable(db, 2))
	})
}
