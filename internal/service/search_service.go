package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gavel/internal/models"
	"gavel/internal/observability"
	"gavel/internal/repository"
	"gavel/internal/search"
)

type SearchService struct {
	auctionRepo  repository.AuctionRepository
	categoryRepo repository.CategoryRepository
}

// SearchInput is the raw, not yet validated search request as the transport
// layer parsed it.
type SearchInput struct {
	Query       string
	CategoryIDs []uint
	SellerID    uint
	BidderID    uint
	SortBy      string
	Count       int
	StartIndex  int
}

// SearchResult pairs one page of auctions with the total number of matches
// before pagination.
type SearchResult struct {
	Auctions   []*models.Auction `json:"auctions"`
	TotalCount int64             `json:"total_count"`
}

func NewSearchService(
	auctionRepo repository.AuctionRepository,
	categoryRepo repository.CategoryRepository,
) *SearchService {
	return &SearchService{
		auctionRepo:  auctionRepo,
		categoryRepo: categoryRepo,
	}
}

// Search validates the request, builds the typed query, and executes it.
// Every filter is optional; filters that are present are AND'd together.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	if in.Count < 0 {
		return nil, models.NewValidationError("count must not be negative")
	}
	if in.StartIndex < 0 {
		return nil, models.NewValidationError("startIndex must not be negative")
	}

	sort, err := search.ParseSortKey(in.SortBy)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var predicates []search.Predicate

	if keywords := splitKeywords(in.Query); len(keywords) > 0 {
		predicates = append(predicates, search.KeywordMatch{Keywords: keywords})
	}

	if len(in.CategoryIDs) > 0 {
		missing, err := s.categoryRepo.MissingIDs(ctx, in.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, models.NewValidationError(fmt.Sprintf("Unknown category ids: %v", missing))
		}
		predicates = append(predicates, search.CategoryIn{IDs: in.CategoryIDs})
	}

	if in.SellerID != 0 {
		predicates = append(predicates, search.SellerEquals{ID: in.SellerID})
	}
	if in.BidderID != 0 {
		predicates = append(predicates, search.BidderHasBid{ID: in.BidderID})
	}

	start := time.Now()
	auctions, total, err := s.auctionRepo.Search(ctx, search.Query{
		Predicates: predicates,
		Sort:       sort,
		Count:      in.Count,
		StartIndex: in.StartIndex,
	})
	if err != nil {
		return nil, err
	}
	observability.ObserveSearch(string(sort), start)

	return &SearchResult{Auctions: auctions, TotalCount: total}, nil
}

// splitKeywords breaks the free-text query into individual terms. A blank
// query yields no keyword predicate at all.
func splitKeywords(q string) []string {
	return strings.Fields(q)
}
