package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"gavel/internal/config"
	"gavel/internal/models"
	"gavel/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultImageDir             = "/tmp/gavel/images"
	DefaultImageMaxUploadSizeMB = 10
)

type UploadImageInput struct {
	UserID      uint
	AuctionID   uint
	ContentType string
	Content     []byte
}

// ImageService stores one image per auction on the local filesystem. The
// bytes are persisted verbatim; no transcoding or resizing happens.
type ImageService struct {
	auctionRepo        repository.AuctionRepository
	imageDir           string
	maxUploadSizeBytes int64
}

func NewImageService(auctionRepo repository.AuctionRepository, cfg *config.Config) *ImageService {
	imageDir := DefaultImageDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.ImageDir != "" {
			imageDir = cfg.ImageDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		auctionRepo:        auctionRepo,
		imageDir:           imageDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload stores the auction's image, replacing any previous one. The second
// return value reports whether this created the auction's first image, which
// the API surfaces as 201 versus 200.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (created bool, err error) {
	auction, err := s.getAuction(ctx, in.AuctionID)
	if err != nil {
		return false, err
	}
	if auction.SellerID != in.UserID {
		return false, models.NewConflictError("Only the seller may upload an image for this auction")
	}

	if len(in.Content) == 0 {
		return false, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return false, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(in.Content)
	ext, ok := imageExtension(detected)
	if !ok {
		return false, models.NewValidationError("Image must be PNG, JPEG or GIF")
	}

	filename := fmt.Sprintf("auction_%d%s", in.AuctionID, ext)
	if err := s.writeImage(filename, in.Content); err != nil {
		return false, models.NewInternalError(err)
	}

	created = auction.ImageFilename == ""
	if auction.ImageFilename != "" && auction.ImageFilename != filename {
		// Replacement changed the extension; drop the old file.
		_ = os.Remove(filepath.Join(s.imageDir, auction.ImageFilename))
	}

	if err := s.auctionRepo.UpdateImageFilename(ctx, in.AuctionID, filename); err != nil {
		return false, err
	}
	return created, nil
}

// ResolveForServing returns the on-disk path of the auction's image.
func (s *ImageService) ResolveForServing(ctx context.Context, auctionID uint) (string, error) {
	auction, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return "", err
	}
	if auction.ImageFilename == "" {
		return "", models.NewNotFoundError("Image for auction", auctionID)
	}
	fullPath := filepath.Join(s.imageDir, auction.ImageFilename)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Image for auction", auctionID)
		}
		return "", models.NewInternalError(err)
	}
	return fullPath, nil
}

func (s *ImageService) getAuction(ctx context.Context, id uint) (*models.Auction, error) {
	auction, err := s.auctionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Auction", id)
		}
		return nil, err
	}
	return auction, nil
}

// writeImage writes to a unique temp file first and renames into place so a
// concurrent reader never sees a partial image.
func (s *ImageService) writeImage(filename string, data []byte) error {
	if err := os.MkdirAll(s.imageDir, 0o750); err != nil {
		return err
	}
	tmp := filepath.Join(s.imageDir, "tmp_"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, filepath.Join(s.imageDir, filename)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func imageExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/png":
		return ".png", true
	case "image/jpeg":
		return ".jpg", true
	case "image/gif":
		return ".gif", true
	default:
		return "", false
	}
}
