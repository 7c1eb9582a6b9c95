package services

import (
	"context"
	"testing"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSwipeFixture(t *testing.T) (*SwipeService, *storetest.MemoryStore, *recordingNotifier) {
	t.Helper()
	store := storetest.NewMemoryStore()
	seedUser(t, store, "u1", "Ama", 25, models.GenderFemale)
	seedUser(t, store, "u2", "Kofi", 27, models.GenderMale)
	seedUser(t, store, "u3", "Esi", 24, models.GenderFemale)
	notifier := &recordingNotifier{}
	return NewSwipeService(store, store, notifier, nil), store, notifier
}

func TestMutualLikeCreatesOneMatch(t *testing.T) {
	for _, order := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		svc, store, notifier := newSwipeFixture(t)
		ctx := context.Background()

		first, err := svc.RecordSwipe(ctx, order[0], order[1], models.SwipeLike)
		require.NoError(t, err)
		assert.False(t, first.IsMatch)
		assert.Nil(t, first.Match)

		second, err := svc.RecordSwipe(ctx, order[1], order[0], models.SwipeSuperLike)
		require.NoError(t, err)
		assert.True(t, second.IsMatch)
		assert.True(t, second.MatchCreated)
		require.NotNil(t, second.Match)
		assert.True(t, second.Match.Involves("u1", "u2"))
		assert.False(t, second.Match.ConversationStarted)
		assert.Nil(t, second.Match.LastMessageAt)
		assert.Equal(t, 1, store.Matches())

		pushed := notifier.ofType("new_match")
		require.Len(t, pushed, 2)
		assert.ElementsMatch(t, []string{"u1", "u2"}, []string{pushed[0].UserID, pushed[1].UserID})
	}
}

func TestRepeatedMutualDetectionDoesNotDuplicateMatch(t *testing.T) {
	svc, store, _ := newSwipeFixture(t)
	ctx := context.Background()

	_, err := svc.RecordSwipe(ctx, "u1", "u2", models.SwipeLike)
	require.NoError(t, err)
	res, err := svc.RecordSwipe(ctx, "u2", "u1", models.SwipeLike)
	require.NoError(t, err)
	require.True(t, res.MatchCreated)

	// undo and redo the like; the pair is already matched
	require.NoError(t, svc.DeleteSwipe(ctx, res.Swipe.ID))
	again, err := svc.RecordSwipe(ctx, "u2", "u1", models.SwipeLike)
	require.NoError(t, err)
	assert.True(t, again.IsMatch)
	assert.False(t, again.MatchCreated)
	assert.Equal(t, res.Match.ID, again.Match.ID)
	assert.Equal(t, 1, store.Matches())
}

func TestDislikeNeverLikesOrMatches(t *testing.T) {
	svc, store, notifier := newSwipeFixture(t)
	ctx := context.Background()

	_, err := svc.RecordSwipe(ctx, "u1", "u2", models.SwipeLike)
	require.NoError(t, err)
	res, err := svc.RecordSwipe(ctx, "u2", "u1", models.SwipeDislike)
	require.NoError(t, err)

	assert.False(t, res.IsMatch)
	assert.Equal(t, 1, store.Likes())
	assert.Equal(t, 0, store.Matches())
	assert.Empty(t, notifier.ofType("new_match"))

	liked, err := store.HasLike(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestSecondSwipeOnPairIsConflict(t *testing.T) {
	svc, store, _ := newSwipeFixture(t)
	ctx := context.Background()

	_, err := svc.RecordSwipe(ctx, "u1", "u2", models.SwipeDislike)
	require.NoError(t, err)

	_, err = svc.RecordSwipe(ctx, "u1", "u2", models.SwipeLike)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 0, store.Likes())

	swipes, err := svc.ListSwipes(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, swipes, 1)
}

func TestRecordSwipeValidation(t *testing.T) {
	svc, _, _ := newSwipeFixture(t)
	ctx := context.Background()

	_, err := svc.RecordSwipe(ctx, "u1", "u1", models.SwipeLike)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.RecordSwipe(ctx, "u1", "u2", "maybe")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.RecordSwipe(ctx, "u1", "ghost", models.SwipeLike)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteLikeSwipeKeepsMatch(t *testing.T) {
	svc, store, _ := newSwipeFixture(t)
	ctx := context.Background()

	first, err := svc.RecordSwipe(ctx, "u1", "u2", models.SwipeLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, "u2", "u1", models.SwipeLike)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSwipe(ctx, first.Swipe.ID))

	liked, err := store.HasLike(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 1, store.Matches())

	_, err = svc.GetSwipe(ctx, first.Swipe.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSwipe(ctx, first.Swipe.ID), apperr.ErrNotFound)
}

func TestListLikesAndReceivedLikes(t *testing.T) {
	svc, _, _ := newSwipeFixture(t)
	ctx := context.Background()

	_, err := svc.RecordSwipe(ctx, "u1", "u2", models.SwipeLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, "u1", "u3", models.SwipeSuperLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, "u3", "u2", models.SwipeLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, "u2", "u3", models.SwipeDislike)
	require.NoError(t, err)

	likes, err := svc.ListLikes(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, likes, 2)

	dislikes, err := svc.ListSwipes(ctx, "u2", models.SwipeDislike)
	require.NoError(t, err)
	assert.Len(t, dislikes, 1)

	received, err := svc.ListReceivedLikes(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, "Ama", received[0].Name)
	assert.Equal(t, "Esi", received[1].Name)

	// matched pairs drop out of received likes
	_, err = svc.RecordSwipe(ctx, "u3", "u1", models.SwipeLike)
	require.NoError(t, err)
	received, err = svc.ListReceivedLikes(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, received)
}
