package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/test/helpers"
)

func TestUserRepository_RoundTrip(t *testing.T) {
	repo := persistence.NewGormUserRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	ws6 := 6
	user, err := identity.NewUser("ws6-operator", "a-long-password", identity.RoleWorkstation, &ws6, repoNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))
	require.NotZero(t, user.ID)

	found, err := repo.FindByUsername(ctx, "ws6-operator")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, identity.RoleWorkstation, found.Role)
	require.NotNil(t, found.WorkstationID)
	assert.Equal(t, 6, *found.WorkstationID)
	assert.True(t, found.CheckPassword("a-long-password"))
	assert.False(t, found.CheckPassword("wrong-password"))

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ws6-operator", byID.Username)
}

func TestUserRepository_MissingUserIsNil(t *testing.T) {
	repo := persistence.NewGormUserRepository(helpers.NewTestDB(t))

	found, err := repo.FindByUsername(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestConfigStore_GetSet(t *testing.T) {
	store := persistence.NewGormConfigStore(helpers.NewTestDB(t))
	ctx := context.Background()

	_, found, err := store.Get(ctx, "LOT_SIZE_THRESHOLD")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "LOT_SIZE_THRESHOLD", "5"))
	value, found, err := store.Get(ctx, "LOT_SIZE_THRESHOLD")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "5", value)

	// Set overwrites in place
	require.NoError(t, store.Set(ctx, "LOT_SIZE_THRESHOLD", "7"))
	value, _, err = store.Get(ctx, "LOT_SIZE_THRESHOLD")
	require.NoError(t, err)
	assert.Equal(t, "7", value)
}
