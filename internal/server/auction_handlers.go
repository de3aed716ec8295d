package server

import (
	"time"

	"gavel/internal/models"
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createAuctionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  uint      `json:"category_id"`
	Reserve     int       `json:"reserve"`
	EndDate     time.Time `json:"end_date"`
}

type updateAuctionRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CategoryID  *uint      `json:"category_id"`
	Reserve     *int       `json:"reserve"`
	EndDate     *time.Time `json:"end_date"`
}

// SearchAuctions handles GET /api/auctions. All filters are optional query
// parameters and are AND'd together when present.
func (s *Server) SearchAuctions(c *fiber.Ctx) error {
	categoryIDs, ok := queryUintList(c, "categoryIds")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("categoryIds must be a comma-separated list of positive integers"))
	}
	sellerID, ok := queryUint(c, "sellerId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("sellerId must be a positive integer"))
	}
	bidderID, ok := queryUint(c, "bidderId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("bidderId must be a positive integer"))
	}
	count, ok := queryInt(c, "count")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("count must be an integer"))
	}
	startIndex, ok := queryInt(c, "startIndex")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("startIndex must be an integer"))
	}

	result, err := s.searchService.Search(c.UserContext(), service.SearchInput{
		Query:       c.Query("q"),
		CategoryIDs: categoryIDs,
		SellerID:    sellerID,
		BidderID:    bidderID,
		SortBy:      c.Query("sortBy"),
		Count:       count,
		StartIndex:  startIndex,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetAuction handles GET /api/auctions/:id.
func (s *Server) GetAuction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	auction, err := s.auctionService.GetAuction(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(auction)
}

// CreateAuction handles POST /api/auctions.
func (s *Server) CreateAuction(c *fiber.Ctx) error {
	var req createAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	auction, err := s.auctionService.CreateAuction(c.UserContext(), service.CreateAuctionInput{
		SellerID:    currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Reserve:     req.Reserve,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auction)
}

// UpdateAuction handles PATCH /api/auctions/:id. Only the seller may modify,
// and only while the auction has no bids.
func (s *Server) UpdateAuction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	auction, err := s.auctionService.UpdateAuction(c.UserContext(), service.UpdateAuctionInput{
		UserID:      currentUserID(c),
		AuctionID:   id,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Reserve:     req.Reserve,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(auction)
}

// DeleteAuction handles DELETE /api/auctions/:id.
func (s *Server) DeleteAuction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.auctionService.DeleteAuction(c.UserContext(), service.DeleteAuctionInput{
		UserID:    currentUserID(c),
		AuctionID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCategories handles GET /api/categories.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.auctionService.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}
