package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Photo struct {
	ID         string    `json:"photo_id"`
	UserID     string    `json:"user_id"`
	URL        string    `json:"url" validate:"required,url"`
	PublicID   *string   `json:"public_id,omitempty"`
	IsPrimary  bool      `json:"is_primary"`
	Order      int       `json:"order" validate:"gte=0,lte=20"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type CreatePhotoRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	URL       string `json:"url" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// PhotoUpdate holds the mutable photo fields. Nil fields are left untouched.
type PhotoUpdate struct {
	IsPrimary *bool `json:"is_primary"`
	Order     *int  `json:"order" validate:"omitempty,gte=0,lte=20"`
}

func (u *PhotoUpdate) Params() map[string]interface{} {
	return map[string]interface{}{
		"is_primary": optional(u.IsPrimary),
		"order":      optional(u.Order),
	}
}

func (u *PhotoUpdate) Apply(p *Photo) {
	if u.IsPrimary != nil {
		p.IsPrimary = *u.IsPrimary
	}
	if u.Order != nil {
		p.Order = *u.Order
	}
}

// MakesPrimary reports whether applying the update promotes the photo.
func (u *PhotoUpdate) MakesPrimary() bool {
	return u.IsPrimary != nil && *u.IsPrimary
}

// DisplayPhoto picks the photo shown beside a user: the primary one, else
// the first by order.
func DisplayPhoto(photos []*Photo) *string {
	var pick *Photo
	for _, p := range photos {
		switch {
		case p.IsPrimary:
			url := p.URL
			return &url
		case pick == nil, p.Order < pick.Order,
			p.Order == pick.Order && p.UploadedAt.Before(pick.UploadedAt):
			pick = p
		}
	}
	if pick == nil {
		return nil
	}
	url := pick.URL
	return &url
}

type PhotoOrder struct {
	PhotoID   string `json:"photo_id" binding:"required"`
	Order     int    `json:"order"`
	IsPrimary bool   `json:"is_primary"`
}

type ReorderPhotosRequest struct {
	Photos []PhotoOrder `json:"photos" binding:"required,min=1,dive"`
}

type PhotoRepo interface {
	CreatePhoto(ctx context.Context, photo *Photo) error
	GetPhoto(ctx context.Context, id string) (*Photo, error)
	ListUserPhotos(ctx context.Context, userID string) ([]*Photo, error)
	UpdatePhoto(ctx context.Context, id string, update *PhotoUpdate) (*Photo, error)
	DeletePhoto(ctx context.Context, id string) error
}

func photoFromNode(n neo4j.Node) *Photo {
	p := n.Props
	return &Photo{
		ID:         propString(p, "photo_id"),
		UserID:     propString(p, "user_id"),
		URL:        propString(p, "url"),
		PublicID:   propStringPtr(p, "public_id"),
		IsPrimary:  propBool(p, "is_primary"),
		Order:      propInt(p, "order"),
		UploadedAt: propTime(p, "uploaded_at"),
	}
}

const unsetPrimaryQuery = `
	MATCH (o:Photo {user_id: $user_id, is_primary: true})
	WHERE o.photo_id <> $photo_id
	SET o.is_primary = false`

// CreatePhoto stores the photo and links it to its owner. A primary photo
// demotes the owner's current primary in the same transaction.
func (r *Neo4jRepo) CreatePhoto(ctx context.Context, photo *Photo) error {
	var stmts []statement
	if photo.IsPrimary {
		stmts = append(stmts, statement{unsetPrimaryQuery, map[string]interface{}{
			"user_id":  photo.UserID,
			"photo_id": photo.ID,
		}})
	}
	stmts = append(stmts, statement{`
		MATCH (u:User {user_id: $user_id})
		CREATE (p:Photo)-[:BELONGS_TO]->(u)
		SET p = $props
		RETURN p`, map[string]interface{}{
		"user_id": photo.UserID,
		"props": map[string]interface{}{
			"photo_id":    photo.ID,
			"user_id":     photo.UserID,
			"url":         photo.URL,
			"public_id":   optional(photo.PublicID),
			"is_primary":  photo.IsPrimary,
			"order":       photo.Order,
			"uploaded_at": photo.UploadedAt,
		},
	}})

	records, err := r.writeTx(ctx, stmts...)
	if err != nil {
		return fmt.Errorf("error creating photo: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *Neo4jRepo) GetPhoto(ctx context.Context, id string) (*Photo, error) {
	records, err := r.read(ctx, `MATCH (p:Photo {photo_id: $photo_id}) RETURN p`, map[string]interface{}{"photo_id": id})
	if err != nil {
		return nil, fmt.Errorf("error fetching photo: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("photo not found")
	}
	n, _ := nodeFromRecord(records[0], "p")
	return photoFromNode(n), nil
}

func (r *Neo4jRepo) ListUserPhotos(ctx context.Context, userID string) ([]*Photo, error) {
	records, err := r.read(ctx, `
		MATCH (p:Photo {user_id: $user_id})
		RETURN p
		ORDER BY p.order ASC, p.uploaded_at ASC`, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error listing photos: %w", err)
	}
	photos := make([]*Photo, 0, len(records))
	for _, record := range records {
		if n, ok := nodeFromRecord(record, "p"); ok {
			photos = append(photos, photoFromNode(n))
		}
	}
	return photos, nil
}

func (r *Neo4jRepo) UpdatePhoto(ctx context.Context, id string, update *PhotoUpdate) (*Photo, error) {
	current, err := r.GetPhoto(ctx, id)
	if err != nil {
		return nil, err
	}

	var stmts []statement
	if update.MakesPrimary() {
		stmts = append(stmts, statement{unsetPrimaryQuery, map[string]interface{}{
			"user_id":  current.UserID,
			"photo_id": id,
		}})
	}
	params := update.Params()
	params["photo_id"] = id
	stmts = append(stmts, statement{`
		MATCH (p:Photo {photo_id: $photo_id})
		SET p.is_primary = coalesce($is_primary, p.is_primary),
		    p.order = coalesce($order, p.order)
		RETURN p`, params})

	records, err := r.writeTx(ctx, stmts...)
	if err != nil {
		return nil, fmt.Errorf("error updating photo: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("photo not found")
	}
	n, _ := nodeFromRecord(records[0], "p")
	return photoFromNode(n), nil
}

func (r *Neo4jRepo) DeletePhoto(ctx context.Context, id string) error {
	records, err := r.write(ctx, `
		MATCH (p:Photo {photo_id: $photo_id})
		DETACH DELETE p
		RETURN count(*) AS n`, map[string]interface{}{"photo_id": id})
	if err != nil {
		return fmt.Errorf("error deleting photo: %w", err)
	}
	if len(records) == 0 || getInt64FromRecord(records[0], "n") == 0 {
		return apperr.NotFound("photo not found")
	}
	return nil
}
