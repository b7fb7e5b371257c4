package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioGames() []Game {
	return []Game{
		{AppID: 1, Name: "A", Developers: []string{"X"}, Genres: []string{"RPG"}, Positive: 80, Negative: 20},
		{AppID: 2, Name: "B", Developers: []string{"Y"}, Genres: []string{"RPG"}, Positive: 40, Negative: 10},
		{AppID: 3, Name: "C", Developers: []string{"X"}, Genres: []string{"Action"}, Positive: 5, Negative: 95},
	}
}

func TestNormalize(t *testing.T) {
	games := Normalize([]Game{
		{AppID: 1, Positive: 80, Negative: 20},
		{AppID: 2, Positive: 0, Negative: 0},
		{AppID: 3, Positive: -5, Negative: 10},
		{AppID: 4, Positive: 400, Negative: 0},
	})

	for _, g := range games {
		assert.GreaterOrEqual(t, g.ReviewRatio, 0.0, "appid %d", g.AppID)
		assert.LessOrEqual(t, g.ReviewRatio, 1.0, "appid %d", g.AppID)
		assert.GreaterOrEqual(t, g.PopularityScore, 0.0, "appid %d", g.AppID)
		assert.LessOrEqual(t, g.PopularityScore, 1.0, "appid %d", g.AppID)
	}
	assert.Equal(t, int64(100), games[0].TotalReviews)
	assert.InDelta(t, 0.8, games[0].ReviewRatio, 1e-6)
	assert.InDelta(t, 0.25, games[0].PopularityScore, 1e-6)
	assert.Equal(t, 0.0, games[1].ReviewRatio)
	assert.Equal(t, int64(10), games[2].TotalReviews)
}

func TestNormalizeRecomputesStaleDerivedFields(t *testing.T) {
	games := Normalize([]Game{{AppID: 1, Positive: 1, Negative: 1, TotalReviews: 999, ReviewRatio: 0.99}})
	assert.Equal(t, int64(2), games[0].TotalReviews)
	assert.InDelta(t, 0.5, games[0].ReviewRatio, 1e-6)
}

func TestSnapshotRetained(t *testing.T) {
	snap := NewSnapshot(scenarioGames())
	require.Equal(t, 3, snap.Len())

	retained := snap.Retained(50)
	ids := make([]int64, 0, len(retained))
	for _, g := range retained {
		ids = append(ids, g.AppID)
	}
	// 阈值作用于评价数量：C 好评率很低但有 100 条评价，同样保留
	assert.Equal(t, []int64{1, 2, 3}, ids)

	retained = snap.Retained(100)
	assert.Len(t, retained, 2)
}

func TestSnapshotDedupAndOrder(t *testing.T) {
	snap := NewSnapshot([]Game{
		{AppID: 9, Name: "old"},
		{AppID: 3, Name: "three"},
		{AppID: 9, Name: "new"},
	})
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, int64(3), snap.Games()[0].AppID)

	g, ok := snap.Get(9)
	require.True(t, ok)
	assert.Equal(t, "new", g.Name)

	_, ok = snap.Get(42)
	assert.False(t, ok)
}

func TestGameKeys(t *testing.T) {
	g := Game{Developers: []string{"Valve", "Hidden Path"}}
	assert.Equal(t, "Valve Hidden Path", g.DeveloperKey())
	assert.Equal(t, UnknownCategory, g.PublisherKey())

	g.ShortDescription = "short"
	assert.Equal(t, "short", g.Description())
	g.DetailedDescription = "detailed"
	assert.Equal(t, "detailed", g.Description())
}

func TestParseMetadata(t *testing.T) {
	data := []byte(`{
		"10": {"name": "Counter-Strike", "tags": {"FPS": 90, "Action": 50}, "genres": ["Action"],
		       "positive": 100, "negative": 5, "developers": ["Valve"], "publishers": ["Valve"]},
		"20": {"name": "Team Fortress", "tags": ["Shooter"], "about_the_game": "hats"},
		"x":  {"name": "broken"}
	}`)
	games, err := ParseMetadata(data)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, int64(10), games[0].AppID)
	assert.Equal(t, []string{"Action", "FPS"}, games[0].Tags)
	assert.Equal(t, int64(100), games[0].Positive)

	assert.Equal(t, []string{"Shooter"}, games[1].Tags)
	assert.Equal(t, "hats", games[1].Description())
	assert.Empty(t, games[1].Developers)
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": {"name": "A", "positive": 3}}`), 0o600))

	games, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "A", games[0].Name)

	_, err = NewFileLoader(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)
}
