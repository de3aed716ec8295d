package service

import (
	"context"
	"testing"

	"gavel/internal/models"
	"gavel/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturingSearchRepo(captured *search.Query) *stubAuctionRepo {
	return &stubAuctionRepo{
		searchFn: func(_ context.Context, q search.Query) ([]*models.Auction, int64, error) {
			*captured = q
			return []*models.Auction{{ID: 1}}, 1, nil
		},
	}
}

func TestSearchValidation(t *testing.T) {
	t.Parallel()

	svc := NewSearchService(&stubAuctionRepo{}, &stubCategoryRepo{})

	tests := []struct {
		name string
		in   SearchInput
	}{
		{"negative count", SearchInput{Count: -1}},
		{"negative start index", SearchInput{StartIndex: -5}},
		{"unknown sort key", SearchInput{SortBy: "PRICE_ASC"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Search(context.Background(), tt.in)
			assertAppError(t, err, models.CodeValidation)
		})
	}
}

func TestSearchUnknownCategoryIDs(t *testing.T) {
	t.Parallel()

	svc := NewSearchService(&stubAuctionRepo{}, &stubCategoryRepo{
		missingIDsFn: func(_ context.Context, _ []uint) ([]uint, error) {
			return []uint{77}, nil
		},
	})

	_, err := svc.Search(context.Background(), SearchInput{CategoryIDs: []uint{1, 77}})
	assertAppError(t, err, models.CodeValidation)
}

func TestSearchNoFiltersMeansUnconstrained(t *testing.T) {
	t.Parallel()

	var captured search.Query
	svc := NewSearchService(capturingSearchRepo(&captured), &stubCategoryRepo{})

	res, err := svc.Search(context.Background(), SearchInput{})
	require.NoError(t, err)
	assert.Empty(t, captured.Predicates, "absent filters contribute no predicate")
	assert.Equal(t, search.SortClosingSoon, captured.Sort, "blank sortBy selects the default")
	assert.EqualValues(t, 1, res.TotalCount)
}

func TestSearchComposesPredicates(t *testing.T) {
	t.Parallel()

	var captured search.Query
	svc := NewSearchService(capturingSearchRepo(&captured), &stubCategoryRepo{})

	_, err := svc.Search(context.Background(), SearchInput{
		Query:       "antique  clock",
		CategoryIDs: []uint{2, 3},
		SellerID:    5,
		BidderID:    6,
		SortBy:      "BIDS_DESC",
		Count:       10,
		StartIndex:  20,
	})
	require.NoError(t, err)

	require.Len(t, captured.Predicates, 4)
	assert.Equal(t, search.KeywordMatch{Keywords: []string{"antique", "clock"}}, captured.Predicates[0])
	assert.Equal(t, search.CategoryIn{IDs: []uint{2, 3}}, captured.Predicates[1])
	assert.Equal(t, search.SellerEquals{ID: 5}, captured.Predicates[2])
	assert.Equal(t, search.BidderHasBid{ID: 6}, captured.Predicates[3])
	assert.Equal(t, search.SortBidsDesc, captured.Sort)
	assert.Equal(t, 10, captured.Count)
	assert.Equal(t, 20, captured.StartIndex)
}

func TestSearchZeroCountIsUnlimited(t *testing.T) {
	t.Parallel()

	var captured search.Query
	svc := NewSearchService(capturingSearchRepo(&captured), &stubCategoryRepo{})

	_, err := svc.Search(context.Background(), SearchInput{Count: 0, StartIndex: 3})
	require.NoError(t, err)
	assert.Zero(t, captured.Count)
	assert.Equal(t, 3, captured.StartIndex)
}
