package services

import (
	"context"

	"github.com/joshua-takyi/rendez/internal/models"
)

type MatchService struct {
	matches models.MatchRepo
}

func NewMatchService(matches models.MatchRepo) *MatchService {
	return &MatchService{
		matches: matches,
	}
}

func (ms *MatchService) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	return ms.matches.GetMatch(ctx, id)
}

// ListUserMatches returns the user's matches, most recent activity first.
func (ms *MatchService) ListUserMatches(ctx context.Context, userID string) ([]*models.MatchSummary, error) {
	return ms.matches.ListUserMatches(ctx, userID)
}

func (ms *MatchService) DeleteMatch(ctx context.Context, id string) error {
	return ms.matches.DeleteMatch(ctx, id)
}
