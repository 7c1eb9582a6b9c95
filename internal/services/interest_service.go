package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
)

type InterestService struct {
	interests models.InterestRepo
}

func NewInterestService(interests models.InterestRepo) *InterestService {
	return &InterestService{
		interests: interests,
	}
}

func (is *InterestService) CreateInterest(ctx context.Context, req *models.InterestRequest) (*models.Interest, error) {
	interest := &models.Interest{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
	}
	if err := models.Validate.Struct(interest); err != nil {
		return nil, apperr.Invalid(err)
	}
	if _, err := is.interests.FindInterestByName(ctx, interest.Name); err == nil {
		return nil, apperr.Conflict("interest already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err := is.interests.CreateInterest(ctx, interest); err != nil {
		return nil, err
	}
	return interest, nil
}

func (is *InterestService) GetInterest(ctx context.Context, id string) (*models.Interest, error) {
	return is.interests.GetInterest(ctx, id)
}

func (is *InterestService) ListInterests(ctx context.Context, category string) ([]*models.Interest, error) {
	return is.interests.ListInterests(ctx, strings.TrimSpace(category))
}

func (is *InterestService) AddUserInterest(ctx context.Context, userID, interestID string) error {
	return is.interests.AddUserInterest(ctx, userID, interestID)
}

func (is *InterestService) RemoveUserInterest(ctx context.Context, userID, interestID string) error {
	return is.interests.RemoveUserInterest(ctx, userID, interestID)
}

func (is *InterestService) ListUserInterests(ctx context.Context, userID string) ([]*models.Interest, error) {
	return is.interests.ListUserInterests(ctx, userID)
}

func (is *InterestService) CommonInterests(ctx context.Context, a, b string) ([]*models.Interest, error) {
	return is.interests.CommonInterests(ctx, a, b)
}
