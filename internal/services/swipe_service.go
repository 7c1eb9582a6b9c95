package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/ws"
)

// SwipeResult reports the outcome of a swipe. IsMatch is true whenever the
// pair is mutually liked; MatchCreated only when this swipe created the match.
type SwipeResult struct {
	Swipe        *models.Swipe `json:"swipe"`
	Match        *models.Match `json:"match,omitempty"`
	IsMatch      bool          `json:"is_match"`
	MatchCreated bool          `json:"match_created"`
}

type SwipeService struct {
	swipes   models.SwipeRepo
	matches  models.MatchRepo
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewSwipeService(swipes models.SwipeRepo, matches models.MatchRepo, notifier Notifier, logger *slog.Logger) *SwipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SwipeService{
		swipes:   swipes,
		matches:  matches,
		notifier: notifierOrNop(notifier),
		logger:   logger,
		now:      time.Now,
	}
}

func (ss *SwipeService) RecordSwipe(ctx context.Context, fromID, toID, action string) (*SwipeResult, error) {
	if fromID == "" || toID == "" {
		return nil, apperr.Validation("from_user_id and to_user_id are required")
	}
	if fromID == toID {
		return nil, apperr.Validation("cannot swipe on yourself")
	}
	if action != models.SwipeLike && action != models.SwipeDislike && action != models.SwipeSuperLike {
		return nil, apperr.Validation("action must be one of like, dislike, super_like")
	}

	swiped, err := ss.swipes.HasSwiped(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if swiped {
		return nil, apperr.Conflict("already swiped on this user")
	}

	now := ss.now().UTC()
	swipe := &models.Swipe{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		ToUserID:   toID,
		Action:     action,
		Timestamp:  now,
	}
	if err := ss.swipes.CreateSwipe(ctx, swipe); err != nil {
		return nil, err
	}

	result := &SwipeResult{Swipe: swipe}
	if !models.IsPositiveSwipe(action) {
		return result, nil
	}

	if err := ss.swipes.MergeLike(ctx, fromID, toID, now); err != nil {
		return nil, err
	}
	mutual, err := ss.swipes.HasLike(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return result, nil
	}

	result.IsMatch = true
	existing, err := ss.matches.FindMatchBetween(ctx, fromID, toID)
	switch {
	case err == nil:
		result.Match = existing
		return result, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	match := &models.Match{
		ID:        uuid.NewString(),
		User1ID:   fromID,
		User2ID:   toID,
		MatchedAt: now,
	}
	created, err := ss.matches.CreateMatch(ctx, match)
	if err != nil {
		return nil, err
	}
	if !created {
		// a concurrent swipe matched the pair first
		existing, err := ss.matches.FindMatchBetween(ctx, fromID, toID)
		if err != nil {
			return nil, err
		}
		result.Match = existing
		return result, nil
	}

	result.Match = match
	result.MatchCreated = true
	ss.logger.Info("match created", "match_id", match.ID, "user1_id", fromID, "user2_id", toID)
	for _, uid := range []string{fromID, toID} {
		ss.notifier.SendToUser(uid, ws.Event{Type: "new_match", Data: map[string]any{
			"match_id":   match.ID,
			"user_id":    match.Other(uid),
			"matched_at": match.MatchedAt,
		}})
	}
	return result, nil
}

func (ss *SwipeService) GetSwipe(ctx context.Context, id string) (*models.Swipe, error) {
	return ss.swipes.GetSwipe(ctx, id)
}

// DeleteSwipe undoes a swipe. Undoing a like removes the like edge but keeps
// any match it produced.
func (ss *SwipeService) DeleteSwipe(ctx context.Context, id string) error {
	swipe, err := ss.swipes.GetSwipe(ctx, id)
	if err != nil {
		return err
	}
	if err := ss.swipes.DeleteSwipe(ctx, id); err != nil {
		return err
	}
	if models.IsPositiveSwipe(swipe.Action) {
		return ss.swipes.DeleteLike(ctx, swipe.FromUserID, swipe.ToUserID)
	}
	return nil
}

func (ss *SwipeService) ListSwipes(ctx context.Context, userID, action string) ([]*models.Swipe, error) {
	var actions []string
	if action != "" {
		if action != models.SwipeLike && action != models.SwipeDislike && action != models.SwipeSuperLike {
			return nil, apperr.Validation("action must be one of like, dislike, super_like")
		}
		actions = []string{action}
	}
	return ss.swipes.ListSwipes(ctx, userID, actions)
}

func (ss *SwipeService) ListLikes(ctx context.Context, userID string) ([]*models.Swipe, error) {
	return ss.swipes.ListSwipes(ctx, userID, []string{models.SwipeLike, models.SwipeSuperLike})
}

func (ss *SwipeService) ListReceivedLikes(ctx context.Context, userID string) ([]*models.UserSummary, error) {
	users, err := ss.swipes.ListReceivedLikes(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		s := u.Summary()
		out = append(out, &s)
	}
	return out, nil
}
