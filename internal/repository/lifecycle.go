package repository

import (
	"errors"

	"gavel/internal/models"

	"gorm.io/gorm"
)

// ErrFrozen is returned by guarded mutations when the auction has at least
// one bid. The service layer maps it onto the public error taxonomy.
var ErrFrozen = errors.New("auction is frozen: a bid has been placed")

// LifecycleGuard decides whether an auction may still be mutated or deleted.
// The read must run inside the caller's transaction, after the auction row
// has been locked, so a concurrent first bid cannot slip in between the
// check and the write.
type LifecycleGuard struct{}

// CheckMutable returns ErrFrozen when the auction already has a bid. tx must
// hold the auction's row lock.
func (LifecycleGuard) CheckMutable(tx *gorm.DB, auctionID uint) error {
	var count int64
	err := tx.Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFrozen
	}
	return nil
}
