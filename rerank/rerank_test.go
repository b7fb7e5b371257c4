package rerank

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/core"
)

func item(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSortNode(t *testing.T) {
	items := []*core.Item{item(5, 0.3), item(2, 0.9), nil, item(9, 0.3), item(1, 0.3), item(7, 1.2)}
	out, err := (&SortNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	// 同分按 appid 升序
	assert.Equal(t, []int64{7, 2, 1, 5, 9}, ids(out))
}

func TestTopNNode(t *testing.T) {
	items := func() []*core.Item { return []*core.Item{item(1, 3), item(2, 2), item(3, 1)} }
	tests := []struct {
		name   string
		n      int
		params map[string]any
		want   []int64
	}{
		{name: "cut", n: 2, want: []int64{1, 2}},
		{name: "clamped to candidates", n: 10, want: []int64{1, 2, 3}},
		{name: "zero keeps all", n: 0, want: []int64{1, 2, 3}},
		{name: "request param wins", n: 3, params: map[string]any{ParamTopN: 1}, want: []int64{1}},
		{name: "invalid param ignored", n: 2, params: map[string]any{ParamTopN: "x"}, want: []int64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), &core.RecommendContext{Params: tt.params}, items())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
		})
	}
}

func TestNormalizeScores(t *testing.T) {
	scores := []float64{0.42, -1.3, 0.9, 0.42, 7.5, 0.01}
	out := NormalizeScores(scores)
	require.Len(t, out, len(scores))

	for _, v := range out {
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	for k := 1; k < len(idx); k++ {
		assert.GreaterOrEqual(t, out[idx[k-1]], out[idx[k]])
	}
	assert.Equal(t, out[0], out[3])

	assert.Nil(t, NormalizeScores(nil))
	// 全部相同：z=0，映射到中点
	for _, v := range NormalizeScores([]float64{2, 2}) {
		assert.InDelta(t, 50.5, v, 1e-9)
	}
}

func TestScoreNormalizeNodeKeepsOrder(t *testing.T) {
	items := []*core.Item{item(1, 0.9), item(2, 0.5), item(3, 0.1)}
	out, err := (&ScoreNormalizeNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(out))
	assert.Equal(t, 0.9, out[0].Score)
	assert.Greater(t, out[0].Feature(core.FeatureNormalizedScore), out[1].Feature(core.FeatureNormalizedScore))
	assert.Greater(t, out[1].Feature(core.FeatureNormalizedScore), out[2].Feature(core.FeatureNormalizedScore))
	assert.Contains(t, out[0].Labels, "normalized")
}
