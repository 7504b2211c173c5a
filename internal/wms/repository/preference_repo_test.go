package repository

import (
	"context"
	"testing"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	_, err := repo.FindByUserID(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	pref := entity.DefaultPreference(7)
	pref.UpdatedAt = time.Now()
	require.NoError(t, repo.Upsert(ctx, &pref))

	pref.InventoryView = entity.InventoryViewCard
	pref.PageSize = 50
	require.NoError(t, repo.Upsert(ctx, &pref))

	got, err := repo.FindByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryViewCard, got.InventoryView)
	assert.Equal(t, 50, got.PageSize)
	assert.Equal(t, "light", got.Theme)

	var count int64
	db.Model(&entity.UserPreference{}).Where("user_id = ?", 7).Count(&count)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.Delete(ctx, 7))
	_, err = repo.FindByUserID(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
