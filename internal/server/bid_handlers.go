package server

import (
	"gavel/internal/models"
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
)

type placeBidRequest struct {
	Amount int `json:"amount"`
}

// GetBids handles GET /api/auctions/:id/bids. The ledger is returned highest
// amount first, with bidder identities preloaded.
func (s *Server) GetBids(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	bids, err := s.bidService.ListBids(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(bids)
}

// PlaceBid handles POST /api/auctions/:id/bids.
func (s *Server) PlaceBid(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	bid, err := s.bidService.PlaceBid(c.UserContext(), service.PlaceBidInput{
		AuctionID: id,
		BidderID:  currentUserID(c),
		Amount:    req.Amount,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bid)
}
