package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/profile"
)

func buildStore(t *testing.T, games ...catalog.Game) *feature.Store {
	t.Helper()
	s, err := feature.Build(context.Background(), catalog.Normalize(games), feature.DefaultOptions())
	require.NoError(t, err)
	return s
}

var (
	gameA = catalog.Game{AppID: 1, Name: "A", DetailedDescription: "dragons and swords", Developers: []string{"X"},
		Genres: []string{"RPG"}, Tags: []string{"Fantasy"}, Positive: 80, Negative: 20}
	gameB = catalog.Game{AppID: 2, Name: "B", DetailedDescription: "swords and sorcery", Developers: []string{"Y"},
		Genres: []string{"RPG"}, Tags: []string{"Fantasy"}, Positive: 40, Negative: 10}
	gameC = catalog.Game{AppID: 3, Name: "C", DetailedDescription: "guns and cars", Developers: []string{"X"},
		Genres: []string{"Action"}, Tags: []string{"Shooter"}, Positive: 5, Negative: 95}
	gameL = catalog.Game{AppID: 4, Name: "L", DetailedDescription: "dungeon crawling", Developers: []string{"W"},
		Genres: []string{"RPG"}, Tags: []string{"Roguelike"}, Positive: 70, Negative: 30}
)

func candidates(s *feature.Store, ids ...int64) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.Row, _ = s.Index(id)
		out = append(out, it)
	}
	return out
}

func TestHybridNodeExactScore(t *testing.T) {
	s := buildStore(t, gameA, gameB)
	n := NewHybridNode(s)
	rctx := &core.RecommendContext{Owned: []core.Interaction{{AppID: 1, PlaytimeMinutes: 3000}}}

	items, err := n.Process(context.Background(), rctx, candidates(s, 2))
	require.NoError(t, err)
	require.Len(t, items, 1)

	b := items[0]
	// 单样本训练：预测恒等于目标 0.5
	assert.InDelta(t, 0.5, b.Feature(core.FeatureContent), 1e-12)
	review := 40 / (50 + catalog.Epsilon)
	pop := 50 / (100 + catalog.Epsilon)
	assert.InDelta(t, review, b.Feature(core.FeatureReview), 1e-12)
	assert.InDelta(t, pop, b.Feature(core.FeaturePopularity), 1e-12)
	assert.Equal(t, 0.0, b.Feature(core.FeatureDiversityPenalty))
	assert.Equal(t, 1.0, b.Feature(core.FeaturePreferenceBoost))

	want := (1-0.3-0.2-0.2)*0.5 + 0.3*review + 0.2*pop
	assert.InDelta(t, want, b.Score, 1e-12)
	assert.Equal(t, "ridge", b.Labels["rank_model"].Value)
}

func TestHybridNodeDiversityPenalty(t *testing.T) {
	s := buildStore(t, gameA, gameB, gameC)
	n := NewHybridNode(s)
	rctx := &core.RecommendContext{Owned: []core.Interaction{{AppID: 1, PlaytimeMinutes: 6000}}}

	items, err := n.Process(context.Background(), rctx, candidates(s, 2, 3))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 0.0, items[0].Feature(core.FeatureDiversityPenalty))
	assert.Equal(t, 0.5, items[1].Feature(core.FeatureDiversityPenalty))
}

func TestHybridNodeDislikedTarget(t *testing.T) {
	s := buildStore(t, gameA, gameB, gameC)
	owned := []core.Interaction{{AppID: 1, PlaytimeMinutes: 3000}, {AppID: 2, PlaytimeMinutes: 3000}}
	n := NewHybridNode(s)

	plain, err := n.Process(context.Background(), &core.RecommendContext{Owned: owned}, candidates(s, 3))
	require.NoError(t, err)
	disliked, err := n.Process(context.Background(), &core.RecommendContext{
		Owned:       owned,
		Preferences: core.Preferences{1: core.PreferenceDisliked},
	}, candidates(s, 3))
	require.NoError(t, err)

	rowA, _ := s.Index(1)
	rowB, _ := s.Index(2)
	rowC, _ := s.Index(3)
	rows := []feature.Vector{s.Row(rowA), s.Row(rowB)}

	want, err := model.FitRidge(rows, []float64{0.5 * 0.1, 0.5}, s.Dim(), model.DefaultAlpha)
	require.NoError(t, err)
	assert.InDelta(t, want.Predict(s.Row(rowC)), disliked[0].Feature(core.FeatureContent), 1e-12)

	base, err := model.FitRidge(rows, []float64{0.5, 0.5}, s.Dim(), model.DefaultAlpha)
	require.NoError(t, err)
	assert.InDelta(t, base.Predict(s.Row(rowC)), plain[0].Feature(core.FeatureContent), 1e-12)
	assert.NotEqual(t, plain[0].Feature(core.FeatureContent), disliked[0].Feature(core.FeatureContent))
}

func TestHybridNodeGenreBoostMonotone(t *testing.T) {
	s := buildStore(t, gameA, gameB, gameC, gameL)
	n := NewHybridNode(s)
	owned := []core.Interaction{{AppID: 1, PlaytimeMinutes: 3000}}

	without, err := n.Process(context.Background(), &core.RecommendContext{Owned: owned}, candidates(s, 2, 3))
	require.NoError(t, err)
	with, err := n.Process(context.Background(), &core.RecommendContext{
		Owned:       owned,
		Preferences: core.Preferences{4: core.PreferenceLiked},
	}, candidates(s, 2, 3))
	require.NoError(t, err)

	// B 与喜欢的 L 同为 RPG：加权 1 + 0.5·1
	assert.InDelta(t, 1.5, with[0].Feature(core.FeaturePreferenceBoost), 1e-12)
	assert.GreaterOrEqual(t, with[0].Score, without[0].Score)
	// C 是 Action，不受影响
	assert.InDelta(t, 1.0, with[1].Feature(core.FeaturePreferenceBoost), 1e-12)
	assert.InDelta(t, without[1].Score, with[1].Score, 1e-12)
}

func TestHybridNodeFlatBoost(t *testing.T) {
	s := buildStore(t, gameA, gameB, gameC)
	n := NewHybridNode(s)
	n.BoostMode = BoostFlat
	rctx := &core.RecommendContext{
		Owned:       []core.Interaction{{AppID: 1, PlaytimeMinutes: 3000}},
		Preferences: core.Preferences{2: core.PreferenceLiked},
	}

	items, err := n.Process(context.Background(), rctx, candidates(s, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 1.5, items[0].Feature(core.FeaturePreferenceBoost))
	assert.Equal(t, 1.0, items[1].Feature(core.FeaturePreferenceBoost))
}

func TestHybridNodeStoreFromContext(t *testing.T) {
	s := buildStore(t, gameA, gameB)
	n := NewHybridNode(nil)
	rctx := &core.RecommendContext{Owned: []core.Interaction{{AppID: 1, PlaytimeMinutes: 3000}}}

	_, err := n.Process(context.Background(), rctx, []*core.Item{core.NewItem(2)})
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))

	ctx := feature.NewContext(context.Background(), s)
	items, err := n.Process(ctx, rctx, []*core.Item{core.NewItem(2), core.NewItem(404)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestHybridNodeEmptyProfile(t *testing.T) {
	s := buildStore(t, gameA, gameB)
	n := NewHybridNode(s)

	items, err := n.Process(context.Background(), &core.RecommendContext{}, candidates(s, 1, 2))
	require.NoError(t, err)
	assert.Empty(t, items)

	p := profile.Build(s, nil, nil, profile.DefaultMultipliers())
	ctx := profile.NewContext(context.Background(), p)
	items, err = n.Process(ctx, &core.RecommendContext{}, candidates(s, 1, 2))
	require.NoError(t, err)
	assert.Empty(t, items)
}
