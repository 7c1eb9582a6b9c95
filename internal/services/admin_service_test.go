package services

import (
	"context"
	"testing"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(t *testing.T) (*AdminService, *storetest.MemoryStore) {
	t.Helper()
	hash, err := helpers.HashPassword("Adm1n-pass")
	require.NoError(t, err)
	store := storetest.NewMemoryStore()
	svc := NewAdminService(store, store, store, newTestIssuer(), AdminCredentials{
		Email:        "admin@example.com",
		PasswordHash: hash,
	})
	return svc, store
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	tok, err := svc.Login(ctx, " Admin@Example.com", "Adm1n-pass")
	require.NoError(t, err)
	assert.Equal(t, helpers.RoleAdmin, tok.Role)

	claims, err := newTestIssuer().ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.True(t, helpers.NewEnhancedClaims(claims).IsAdmin())

	_, err = svc.Login(ctx, "admin@example.com", "nope")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAdminStatsAndModeration(t *testing.T) {
	svc, store := newAdminFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for i, created := range []time.Time{now.Add(-time.Hour), now.AddDate(0, 0, -3), now.AddDate(0, 0, -20)} {
		id := string(rune('a' + i))
		last := created
		_, err := store.CreateUser(ctx, &models.User{
			ID: id, Name: "User " + id, Email: id + "@example.com", Age: 30,
			Gender: models.GenderOther, CreatedAt: created, LastActive: &last,
		})
		require.NoError(t, err)
	}

	_, err := svc.VerifyUser(ctx, "a", true)
	require.NoError(t, err)
	banned, err := svc.BanUser(ctx, "c", true)
	require.NoError(t, err)
	require.NotNil(t, banned.BannedAt)
	assert.True(t, banned.BannedAt.Equal(now))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.VerifiedUsers)
	assert.Equal(t, 1, stats.BannedUsers)
	assert.Equal(t, 1, stats.ActiveToday)
	assert.Equal(t, 2, stats.NewThisWeek)

	users, total, err := svc.ListUsers(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].ID)

	unbanned, err := svc.BanUser(ctx, "c", false)
	require.NoError(t, err)
	assert.Nil(t, unbanned.BannedAt)

	_, err = svc.VerifyUser(ctx, "ghost", true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, svc.DeleteUser(ctx, "b"))
	_, total, err = svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestAdminUsersGrowth(t *testing.T) {
	svc, store := newAdminFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for i, created := range []time.Time{now.AddDate(0, 0, -1), now.AddDate(0, 0, -1).Add(time.Hour), now.AddDate(0, 0, -40)} {
		id := string(rune('a' + i))
		_, err := store.CreateUser(ctx, &models.User{ID: id, Name: id, Email: id + "@example.com", Age: 30, Gender: models.GenderOther, CreatedAt: created})
		require.NoError(t, err)
	}

	points, err := svc.UsersGrowth(ctx, 0)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, models.GrowthPoint{Date: "2026-05-09", Count: 2}, points[0])

	points, err = svc.UsersGrowth(ctx, 60)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	_, err = svc.UsersGrowth(ctx, 400)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAdminMatchRate(t *testing.T) {
	svc, store := newAdminFixture(t)
	ctx := context.Background()

	rate, err := svc.MatchRate(ctx)
	require.NoError(t, err)
	assert.Zero(t, rate.MatchRate)

	seedUser(t, store, "u1", "Ama", 25, models.GenderFemale)
	seedUser(t, store, "u2", "Kofi", 27, models.GenderMale)
	seedUser(t, store, "u3", "Esi", 24, models.GenderFemale)
	for i, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}, {"u3", "u2"}} {
		require.NoError(t, store.CreateSwipe(ctx, &models.Swipe{
			ID: string(rune('a' + i)), FromUserID: pair[0], ToUserID: pair[1], Action: models.SwipeLike,
		}))
	}
	_, err = store.CreateMatch(ctx, &models.Match{ID: "m1", User1ID: "u1", User2ID: "u2"})
	require.NoError(t, err)

	rate, err = svc.MatchRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rate.TotalSwipes)
	assert.Equal(t, 1, rate.TotalMatches)
	assert.Equal(t, 33.33, rate.MatchRate)

	matches, total, err := svc.ListMatches(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ama", matches[0].User1Name)

	require.NoError(t, svc.DeleteMatch(ctx, "m1"))
	assert.ErrorIs(t, svc.DeleteMatch(ctx, "m1"), apperr.ErrNotFound)
}

func TestClampAdminPage(t *testing.T) {
	skip, limit := ClampAdminPage(-5, 0)
	assert.Equal(t, 0, skip)
	assert.Equal(t, DefaultAdminPageSize, limit)

	_, limit = ClampAdminPage(0, 1000)
	assert.Equal(t, MaxAdminPageSize, limit)
}
