package server

import (
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadAuctionImage handles PUT /api/auctions/:id/image. The body is the
// raw image bytes. A first upload answers 201, a replacement 200.
func (s *Server) UploadAuctionImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	created, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
		UserID:      currentUserID(c),
		AuctionID:   id,
		ContentType: c.Get("Content-Type"),
		Content:     c.Body(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.SendStatus(status)
}

// GetAuctionImage handles GET /api/auctions/:id/image.
func (s *Server) GetAuctionImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	path, err := s.imageService.ResolveForServing(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendFile(path)
}
