// Package search defines the typed query model for the auction search engine.
// Filters are expressed as predicate values composed with AND; a predicate
// that is not present contributes no clause at all, so an absent filter means
// "unconstrained" rather than "match nothing". Nothing in this package builds
// SQL from string concatenation of user input.
package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gorm.io/gorm"
)

// SortKey enumerates the supported orderings for auction search results.
type SortKey string

const (
	SortAlphabeticalAsc  SortKey = "ALPHABETICAL_ASC"
	SortAlphabeticalDesc SortKey = "ALPHABETICAL_DESC"
	SortClosingSoon      SortKey = "CLOSING_SOON"
	SortClosingLast      SortKey = "CLOSING_LAST"
	SortBidsAsc          SortKey = "BIDS_ASC"
	SortBidsDesc         SortKey = "BIDS_DESC"
	SortReserveAsc       SortKey = "RESERVE_ASC"
	SortReserveDesc      SortKey = "RESERVE_DESC"
)

// ParseSortKey validates a raw sortBy parameter. The empty string selects the
// default ordering (closing soonest first).
func ParseSortKey(raw string) (SortKey, error) {
	if raw == "" {
		return SortClosingSoon, nil
	}
	switch k := SortKey(raw); k {
	case SortAlphabeticalAsc, SortAlphabeticalDesc,
		SortClosingSoon, SortClosingLast,
		SortBidsAsc, SortBidsDesc,
		SortReserveAsc, SortReserveDesc:
		return k, nil
	}
	return "", fmt.Errorf("unknown sortBy value %q", raw)
}

// OrderClause returns the ORDER BY expression for the sort key. last_bid_at
// is a SELECT alias produced by the repository's aggregate projection;
// PostgreSQL allows referencing it in ORDER BY within the same query level.
//
// BIDS_ASC/BIDS_DESC deliberately order by the timestamp of the most recent
// bid, not by bid count or amount, matching the marketplace's historical
// behavior. Auctions without bids sort first ascending and last descending.
func (k SortKey) OrderClause() string {
	switch k {
	case SortAlphabeticalAsc:
		return "auctions.title ASC"
	case SortAlphabeticalDesc:
		return "auctions.title DESC"
	case SortClosingLast:
		return "auctions.end_date DESC"
	case SortBidsAsc:
		return "last_bid_at ASC NULLS FIRST"
	case SortBidsDesc:
		return "last_bid_at DESC NULLS LAST"
	case SortReserveAsc:
		return "auctions.reserve ASC"
	case SortReserveDesc:
		return "auctions.reserve DESC"
	default: // SortClosingSoon and the zero value
		return "auctions.end_date ASC"
	}
}

// Predicate narrows an auction query. Implementations append parameterized
// WHERE clauses to the given builder.
type Predicate interface {
	Apply(db *gorm.DB) *gorm.DB
}

// KeywordMatch matches auctions whose title or description contains any of
// the keywords, case-insensitively.
type KeywordMatch struct {
	Keywords []string
}

func (p KeywordMatch) Apply(db *gorm.DB) *gorm.DB {
	if len(p.Keywords) == 0 {
		return db
	}
	group := db.Session(&gorm.Session{NewDB: true})
	for i, kw := range p.Keywords {
		like := "%" + kw + "%"
		if i == 0 {
			group = group.Where("auctions.title ILIKE ? OR auctions.description ILIKE ?", like, like)
		} else {
			group = group.Or("auctions.title ILIKE ? OR auctions.description ILIKE ?", like, like)
		}
	}
	return db.Where(group)
}

// CategoryIn matches auctions belonging to any of the given categories.
type CategoryIn struct {
	IDs []uint
}

func (p CategoryIn) Apply(db *gorm.DB) *gorm.DB {
	if len(p.IDs) == 0 {
		return db
	}
	return db.Where("auctions.category_id IN ?", p.IDs)
}

// SellerEquals matches auctions owned by exactly this seller.
type SellerEquals struct {
	ID uint
}

func (p SellerEquals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("auctions.seller_id = ?", p.ID)
}

// BidderHasBid matches auctions on which this user has placed at least one bid.
type BidderHasBid struct {
	ID uint
}

func (p BidderHasBid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("EXISTS (SELECT 1 FROM bids WHERE bids.auction_id = auctions.id AND bids.bidder_id = ?)", p.ID)
}

// Query is a fully validated search request: predicates AND'd together, an
// ordering, and pagination applied after filtering and sorting. Count == 0
// means no limit regardless of StartIndex.
type Query struct {
	Predicates []Predicate
	Sort       SortKey
	Count      int
	StartIndex int
}

// Fingerprint returns a stable digest of the query for cache keying. Equal
// queries, predicates included, produce equal fingerprints.
func (q Query) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%+v|%s|%d|%d", q.Predicates, q.Sort, q.Count, q.StartIndex)))
	return hex.EncodeToString(sum[:12])
}

// ApplyPredicates appends every predicate's clause to the builder.
func (q Query) ApplyPredicates(db *gorm.DB) *gorm.DB {
	for _, p := range q.Predicates {
		db = p.Apply(db)
	}
	return db
}

// ApplyPagination appends LIMIT/OFFSET after filtering and ordering.
func (q Query) ApplyPagination(db *gorm.DB) *gorm.DB {
	if q.StartIndex > 0 {
		db = db.Offset(q.StartIndex)
	}
	if q.Count > 0 {
		db = db.Limit(q.Count)
	}
	return db
}
