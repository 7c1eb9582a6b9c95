package services

import (
	"context"
	"strings"
	"testing"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhotoFixture(t *testing.T) (*PhotoService, *storetest.MemoryStore, *fakeUploader) {
	t.Helper()
	store := storetest.NewMemoryStore()
	seedUser(t, store, "u1", "Ama", 25, models.GenderFemale)
	uploader := &fakeUploader{}
	return NewPhotoService(store, uploader, nil), store, uploader
}

func primaryCount(t *testing.T, svc *PhotoService, userID string) int {
	t.Helper()
	photos, err := svc.ListUserPhotos(context.Background(), userID)
	require.NoError(t, err)
	n := 0
	for _, p := range photos {
		if p.IsPrimary {
			n++
		}
	}
	return n
}

func TestUploadPhoto(t *testing.T) {
	svc, _, uploader := newPhotoFixture(t)

	photo, err := svc.Upload(context.Background(), &PhotoUpload{
		UserID:    "u1",
		Filename:  "me.JPG",
		Size:      1024,
		File:      strings.NewReader("image-bytes"),
		IsPrimary: true,
	})
	require.NoError(t, err)
	assert.True(t, photo.IsPrimary)
	require.NotNil(t, photo.PublicID)
	assert.True(t, strings.HasPrefix(*photo.PublicID, "dating_app/photos/u1/"))
	assert.Len(t, uploader.uploaded, 1)
}

func TestUploadPhotoRejections(t *testing.T) {
	svc, _, uploader := newPhotoFixture(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, &PhotoUpload{UserID: "u1", Filename: "doc.pdf", Size: 10, File: strings.NewReader("x")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Upload(ctx, &PhotoUpload{UserID: "u1", Filename: "big.png", Size: MaxPhotoSize + 1, File: strings.NewReader("x")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// unknown owner: the hosted image is cleaned up
	_, err = svc.Upload(ctx, &PhotoUpload{UserID: "ghost", Filename: "a.png", Size: 10, File: strings.NewReader("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Len(t, uploader.deleted, 1)
}

func TestSettingPrimaryLeavesExactlyOne(t *testing.T) {
	svc, _, _ := newPhotoFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := svc.CreatePhoto(ctx, &models.CreatePhotoRequest{
			UserID:    "u1",
			URL:       "https://example.com/p.jpg",
			IsPrimary: true,
			Order:     i,
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	assert.Equal(t, 1, primaryCount(t, svc, "u1"))

	updated, err := svc.UpdatePhoto(ctx, ids[0], &models.PhotoUpdate{IsPrimary: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPrimary)
	assert.Equal(t, 1, primaryCount(t, svc, "u1"))

	last, err := svc.GetPhoto(ctx, ids[2])
	require.NoError(t, err)
	assert.False(t, last.IsPrimary)

	_, err = svc.UpdatePhoto(ctx, ids[0], &models.PhotoUpdate{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestReorderPhotos(t *testing.T) {
	svc, store, _ := newPhotoFixture(t)
	ctx := context.Background()
	seedUser(t, store, "u2", "Kofi", 27, models.GenderMale)

	a, err := svc.CreatePhoto(ctx, &models.CreatePhotoRequest{UserID: "u1", URL: "https://example.com/a.jpg", IsPrimary: true, Order: 0})
	require.NoError(t, err)
	b, err := svc.CreatePhoto(ctx, &models.CreatePhotoRequest{UserID: "u1", URL: "https://example.com/b.jpg", Order: 1})
	require.NoError(t, err)
	other, err := svc.CreatePhoto(ctx, &models.CreatePhotoRequest{UserID: "u2", URL: "https://example.com/c.jpg"})
	require.NoError(t, err)

	photos, err := svc.ReorderPhotos(ctx, "u1", []models.PhotoOrder{
		{PhotoID: b.ID, Order: 0, IsPrimary: true},
		{PhotoID: a.ID, Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, b.ID, photos[0].ID)
	assert.True(t, photos[0].IsPrimary)
	assert.False(t, photos[1].IsPrimary)

	_, err = svc.ReorderPhotos(ctx, "u1", []models.PhotoOrder{{PhotoID: other.ID}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.ReorderPhotos(ctx, "u1", []models.PhotoOrder{
		{PhotoID: a.ID, IsPrimary: true},
		{PhotoID: b.ID, IsPrimary: true},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeletePhotoRemovesHostedImage(t *testing.T) {
	svc, _, uploader := newPhotoFixture(t)
	ctx := context.Background()

	photo, err := svc.Upload(ctx, &PhotoUpload{UserID: "u1", Filename: "a.webp", Size: 10, File: strings.NewReader("x")})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePhoto(ctx, photo.ID))
	assert.Equal(t, []string{*photo.PublicID}, uploader.deleted)
	assert.ErrorIs(t, svc.DeletePhoto(ctx, photo.ID), apperr.ErrNotFound)
}
