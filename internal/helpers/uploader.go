package helpers

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const PhotosFolder = "dating_app/photos"

type UploadedImage struct {
	URL      string
	PublicID string
}

// CloudinaryUploader stores profile photos on Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder string) (*UploadedImage, error) {
	if u.cld == nil {
		return nil, fmt.Errorf("cloudinary is not configured")
	}
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "c_limit,w_1000,h_1000/q_auto:good/f_auto",
		Tags:           []string{"rendez-photo"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return &UploadedImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	if u.cld == nil {
		return fmt.Errorf("cloudinary is not configured")
	}
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("failed to delete image %s: %s", publicID, res.Result)
	}
	return nil
}
