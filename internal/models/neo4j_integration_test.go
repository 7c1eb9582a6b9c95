package models

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIntegrationRepo connects to the Neo4j named by NEO4J_TEST_URI and skips
// the test when it is unset.
func newIntegrationRepo(t *testing.T) *Neo4jRepo {
	t.Helper()
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}
	user := os.Getenv("NEO4J_TEST_USER")
	if user == "" {
		user = "neo4j"
	}
	database := os.Getenv("NEO4J_TEST_DATABASE")
	if database == "" {
		database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, os.Getenv("NEO4J_TEST_PASSWORD"), ""))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, driver.VerifyConnectivity(ctx))
	t.Cleanup(func() { _ = driver.Close(context.Background()) })

	repo := Neo4jNewRepo(driver, database)
	require.NoError(t, repo.EnsureConstraints(ctx))
	return repo
}

func createIntegrationUser(t *testing.T, repo *Neo4jRepo, name string) *User {
	t.Helper()
	id := uuid.NewString()
	u, err := repo.CreateUser(context.Background(), &User{
		ID:          id,
		Name:        name,
		Email:       id + "@example.com",
		Age:         28,
		Gender:      GenderFemale,
		Preferences: UserPreferences{MinAge: 18, MaxAge: 100, MaxDistance: 50},
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.DeleteUser(context.Background(), id) })
	return u
}

func TestNeo4jCreateMatchOncePerPair(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	a := createIntegrationUser(t, repo, "Ama")
	b := createIntegrationUser(t, repo, "Kofi")

	now := time.Now().UTC().Truncate(time.Millisecond)
	created, err := repo.CreateMatch(ctx, &Match{ID: uuid.NewString(), User1ID: a.ID, User2ID: b.ID, MatchedAt: now})
	require.NoError(t, err)
	assert.True(t, created)

	// the reverse direction counts as the same pair
	created, err = repo.CreateMatch(ctx, &Match{ID: uuid.NewString(), User1ID: b.ID, User2ID: a.ID, MatchedAt: now})
	require.NoError(t, err)
	assert.False(t, created)

	m, err := repo.FindMatchBetween(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.Involves(a.ID, b.ID))

	summaries, err := repo.ListUserMatches(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, m.ID, summaries[0].ID)
	assert.Equal(t, b.ID, summaries[0].OtherUser.ID)
	assert.Nil(t, summaries[0].LastMessage)
}

func TestNeo4jListUserMatchesPhotoAndLastMessage(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	a := createIntegrationUser(t, repo, "Ama")
	b := createIntegrationUser(t, repo, "Kofi")

	now := time.Now().UTC().Truncate(time.Millisecond)
	matchID := uuid.NewString()
	_, err := repo.CreateMatch(ctx, &Match{ID: matchID, User1ID: a.ID, User2ID: b.ID, MatchedAt: now})
	require.NoError(t, err)

	require.NoError(t, repo.CreatePhoto(ctx, &Photo{ID: uuid.NewString(), UserID: b.ID, URL: "https://example.com/late.jpg", Order: 4, UploadedAt: now}))
	require.NoError(t, repo.CreatePhoto(ctx, &Photo{ID: uuid.NewString(), UserID: b.ID, URL: "https://example.com/first.jpg", Order: 1, UploadedAt: now}))

	for i, content := range []string{"hi", "how are you"} {
		require.NoError(t, repo.CreateMessage(ctx, &Message{
			ID:         uuid.NewString(),
			MatchID:    &matchID,
			SenderID:   a.ID,
			ReceiverID: b.ID,
			Content:    content,
			SentAt:     now.Add(time.Duration(i+1) * time.Minute),
		}))
	}

	summaries, err := repo.ListUserMatches(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].OtherUser.PrimaryPhoto)
	assert.Equal(t, "https://example.com/first.jpg", *summaries[0].OtherUser.PrimaryPhoto)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "how are you", summaries[0].LastMessage.Content)

	unread, err := repo.UnreadCount(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}

func TestNeo4jMergeLikeIsIdempotent(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	a := createIntegrationUser(t, repo, "Ama")
	b := createIntegrationUser(t, repo, "Kofi")

	now := time.Now().UTC()
	require.NoError(t, repo.MergeLike(ctx, a.ID, b.ID, now))
	require.NoError(t, repo.MergeLike(ctx, a.ID, b.ID, now))

	liked, err := repo.HasLike(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = repo.HasLike(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.DeleteLike(ctx, a.ID, b.ID))
	liked, err = repo.HasLike(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}
