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

func TestInterestCatalogue(t *testing.T) {
	store := storetest.NewMemoryStore()
	svc := NewInterestService(store)
	ctx := context.Background()
	seedUser(t, store, "u1", "Ama", 25, models.GenderFemale)
	seedUser(t, store, "u2", "Kofi", 27, models.GenderMale)

	hiking, err := svc.CreateInterest(ctx, &models.InterestRequest{Name: " Hiking ", Category: "outdoors"})
	require.NoError(t, err)
	assert.Equal(t, "Hiking", hiking.Name)
	music, err := svc.CreateInterest(ctx, &models.InterestRequest{Name: "Music", Category: "arts"})
	require.NoError(t, err)

	_, err = svc.CreateInterest(ctx, &models.InterestRequest{Name: "hiking", Category: "outdoors"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = svc.CreateInterest(ctx, &models.InterestRequest{Name: "  ", Category: "outdoors"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	outdoors, err := svc.ListInterests(ctx, "outdoors")
	require.NoError(t, err)
	require.Len(t, outdoors, 1)
	assert.Equal(t, hiking.ID, outdoors[0].ID)

	require.NoError(t, svc.AddUserInterest(ctx, "u1", hiking.ID))
	require.NoError(t, svc.AddUserInterest(ctx, "u1", music.ID))
	require.NoError(t, svc.AddUserInterest(ctx, "u2", music.ID))
	assert.ErrorIs(t, svc.AddUserInterest(ctx, "u1", "missing"), apperr.ErrNotFound)

	common, err := svc.CommonInterests(ctx, "u1", "u2")
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, "Music", common[0].Name)

	require.NoError(t, svc.RemoveUserInterest(ctx, "u1", music.ID))
	assert.ErrorIs(t, svc.RemoveUserInterest(ctx, "u1", music.ID), apperr.ErrNotFound)

	mine, err := svc.ListUserInterests(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Hiking", mine[0].Name)
}
