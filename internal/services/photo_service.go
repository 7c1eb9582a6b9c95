package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
)

const MaxPhotoSize = 10 << 20

var allowedPhotoExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// PhotoUpload describes a file received from a multipart form.
type PhotoUpload struct {
	UserID    string
	Filename  string
	Size      int64
	File      io.Reader
	IsPrimary bool
	Order     int
}

type PhotoService struct {
	photos   models.PhotoRepo
	uploader ImageUploader
	logger   *slog.Logger
	now      func() time.Time
}

func NewPhotoService(photos models.PhotoRepo, uploader ImageUploader, logger *slog.Logger) *PhotoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoService{
		photos:   photos,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func (ps *PhotoService) Upload(ctx context.Context, up *PhotoUpload) (*models.Photo, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !slices.Contains(allowedPhotoExts, ext) {
		return nil, apperr.Validation("file type not allowed, use jpg, jpeg, png, gif or webp")
	}
	if up.Size > MaxPhotoSize {
		return nil, apperr.Validation("file is larger than 10MB")
	}
	if ps.uploader == nil {
		return nil, apperr.Validation("photo uploads are not configured")
	}

	img, err := ps.uploader.Upload(ctx, up.File, helpers.PhotosFolder+"/"+up.UserID)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		ID:         uuid.NewString(),
		UserID:     up.UserID,
		URL:        img.URL,
		PublicID:   &img.PublicID,
		IsPrimary:  up.IsPrimary,
		Order:      up.Order,
		UploadedAt: ps.now().UTC(),
	}
	if err := ps.store(ctx, photo); err != nil {
		if delErr := ps.uploader.Delete(ctx, img.PublicID); delErr != nil {
			ps.logger.Warn("failed to clean up uploaded image", "public_id", img.PublicID, "error", delErr)
		}
		return nil, err
	}
	return photo, nil
}

// CreatePhoto registers a photo already hosted at req.URL.
func (ps *PhotoService) CreatePhoto(ctx context.Context, req *models.CreatePhotoRequest) (*models.Photo, error) {
	photo := &models.Photo{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		URL:        req.URL,
		IsPrimary:  req.IsPrimary,
		Order:      req.Order,
		UploadedAt: ps.now().UTC(),
	}
	if err := ps.store(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (ps *PhotoService) store(ctx context.Context, photo *models.Photo) error {
	if err := models.Validate.Struct(photo); err != nil {
		return apperr.Invalid(err)
	}
	return ps.photos.CreatePhoto(ctx, photo)
}

func (ps *PhotoService) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	return ps.photos.GetPhoto(ctx, id)
}

func (ps *PhotoService) ListUserPhotos(ctx context.Context, userID string) ([]*models.Photo, error) {
	return ps.photos.ListUserPhotos(ctx, userID)
}

// UpdatePhoto applies update; promoting a photo demotes the owner's others.
func (ps *PhotoService) UpdatePhoto(ctx context.Context, id string, update *models.PhotoUpdate) (*models.Photo, error) {
	if update.IsPrimary == nil && update.Order == nil {
		return nil, apperr.Validation("no fields to update")
	}
	if err := models.Validate.Struct(update); err != nil {
		return nil, apperr.Invalid(err)
	}
	return ps.photos.UpdatePhoto(ctx, id, update)
}

// DeletePhoto removes the photo and its hosted image when one exists.
func (ps *PhotoService) DeletePhoto(ctx context.Context, id string) error {
	photo, err := ps.photos.GetPhoto(ctx, id)
	if err != nil {
		return err
	}
	if err := ps.photos.DeletePhoto(ctx, id); err != nil {
		return err
	}
	if photo.PublicID != nil && ps.uploader != nil {
		if err := ps.uploader.Delete(ctx, *photo.PublicID); err != nil {
			ps.logger.Warn("failed to delete hosted image", "photo_id", id, "public_id", *photo.PublicID, "error", err)
		}
	}
	return nil
}

// ReorderPhotos sets order and primary flags for the user's photos. At most
// one entry may be primary.
func (ps *PhotoService) ReorderPhotos(ctx context.Context, userID string, orders []models.PhotoOrder) ([]*models.Photo, error) {
	owned, err := ps.photos.ListUserPhotos(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(owned))
	for _, p := range owned {
		ids[p.ID] = true
	}

	primaries := 0
	for _, o := range orders {
		if !ids[o.PhotoID] {
			return nil, apperr.NotFound("photo " + o.PhotoID + " not found for user")
		}
		if o.Order < 0 || o.Order > 20 {
			return nil, apperr.Validation("order must be between 0 and 20")
		}
		if o.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return nil, apperr.Validation("only one photo can be primary")
	}

	// primary last so its sibling demotion wins
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b models.PhotoOrder) int {
		switch {
		case a.IsPrimary == b.IsPrimary:
			return 0
		case a.IsPrimary:
			return 1
		}
		return -1
	})
	for _, o := range sorted {
		order, primary := o.Order, o.IsPrimary
		if _, err := ps.photos.UpdatePhoto(ctx, o.PhotoID, &models.PhotoUpdate{IsPrimary: &primary, Order: &order}); err != nil {
			return nil, err
		}
	}
	return ps.photos.ListUserPhotos(ctx, userID)
}
