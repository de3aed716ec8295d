package models

// Category is static reference data classifying auctions. Categories are
// seeded out of band and never mutated through the API.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
