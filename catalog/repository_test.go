package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestRepositoryImportAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openTestDB(t))
	require.NoError(t, repo.AutoMigrate())

	n, err := repo.Import(ctx, scenarioGames(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	games, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, games, 3)

	a := games[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, []string{"X"}, a.Developers)
	assert.Equal(t, int64(100), a.TotalReviews)
	assert.InDelta(t, 0.8, a.ReviewRatio, 1e-6)
	assert.InDelta(t, 1.0, a.PopularityScore, 1e-6)
	assert.InDelta(t, 0.5, games[1].PopularityScore, 1e-6)
}

func TestRepositoryImportUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openTestDB(t))
	require.NoError(t, repo.AutoMigrate())

	_, err := repo.Import(ctx, []Game{{AppID: 1, Name: "old", Positive: 1}}, 0)
	require.NoError(t, err)
	_, err = repo.Import(ctx, []Game{{AppID: 1, Name: "new", Positive: 10}}, 0)
	require.NoError(t, err)

	games, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "new", games[0].Name)
	assert.Equal(t, int64(10), games[0].TotalReviews)
}
