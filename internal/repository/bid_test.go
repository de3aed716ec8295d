package repository

import (
	"context"
	"testing"
	"time"

	"gavel/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const placeBidInsert = `(?s)INSERT INTO bids \(auction_id, bidder_id, amount, timestamp\).*SELECT 1 FROM bids.*bids\.amount >= `

func TestPlaceLocksRowThenConditionallyInserts(t *testing.T) {
	db, mock, _ := setupMockDB(t)
	repo := NewBidRepository(db)

	placed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bid := &models.Bid{AuctionID: 7, BidderID: 3, Amount: 250, Timestamp: placed}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "auctions" WHERE "auctions"\."id" = \$1.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(placeBidInsert).
		WithArgs(uint(7), uint(3), 250, placed, uint(7), 250).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	accepted, err := repo.Place(context.Background(), bid)
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestPlaceRejectsWhenEqualOrHigherBidExists(t *testing.T) {
	db, mock, _ := setupMockDB(t)
	repo := NewBidRepository(db)

	bid := &models.Bid{AuctionID: 7, BidderID: 3, Amount: 250, Timestamp: time.Now().UTC()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "auctions" WHERE "auctions"\."id" = \$1.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(placeBidInsert).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	accepted, err := repo.Place(context.Background(), bid)
	require.NoError(t, err)
	assert.False(t, accepted, "zero rows affected means the ledger already held >= amount")
}

func TestPlaceMissingAuctionRollsBack(t *testing.T) {
	db, mock, _ := setupMockDB(t)
	repo := NewBidRepository(db)

	bid := &models.Bid{AuctionID: 99, BidderID: 3, Amount: 250, Timestamp: time.Now().UTC()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "auctions" WHERE "auctions"\."id" = \$1.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	accepted, err := repo.Place(context.Background(), bid)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.False(t, accepted)
}

func TestListByAuctionOrdersByAmountThenRecency(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBidRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "Clocks"}).Error)
	require.NoError(t, db.Create(&models.Auction{
		Title: "Longcase clock", CategoryID: 1, SellerID: 1,
		Reserve: 100, EndDate: time.Now().Add(48 * time.Hour),
	}).Error)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, amount := range []int{100, 300, 200} {
		require.NoError(t, db.Create(&models.Bid{
			AuctionID: 1, BidderID: 1, Amount: amount,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	bids, err := repo.ListByAuction(ctx, 1)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	assert.Equal(t, []int{300, 200, 100}, []int{bids[0].Amount, bids[1].Amount, bids[2].Amount})

	count, err := repo.CountByAuction(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	highest, err := repo.HighestAmount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 300, highest)
}

func TestHighestAmountDefaultsToZero(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBidRepository(db)

	highest, err := repo.HighestAmount(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, highest)
}
