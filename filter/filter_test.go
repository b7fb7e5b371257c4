package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/store"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestInteractedFilter(t *testing.T) {
	rctx := &core.RecommendContext{
		Owned:       []core.Interaction{{AppID: 1}, {AppID: 2}},
		Preferences: core.Preferences{3: core.PreferenceLiked, 4: core.PreferenceDisliked},
	}
	in := items(1, 2, 3, 4, 5, 6)
	node := &FilterNode{Filters: []Filter{NewInteractedFilter()}}

	out, err := node.Process(context.Background(), rctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, ids(out))
	assert.Equal(t, "filter.interacted", in[0].Labels["filtered"].Source)

	// 未经 Prepare 也能直接使用
	ok, err := NewInteractedFilter().ShouldFilter(context.Background(), rctx, core.NewItem(3))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	adapter := NewStoreAdapter(kv)
	require.NoError(t, adapter.SetBlacklist(ctx, "blacklist", []int64{5}))

	node := &FilterNode{Filters: []Filter{NewBlacklistFilter([]int64{2}, adapter, "blacklist")}}
	out, err := node.Process(ctx, &core.RecommendContext{}, items(1, 2, 5, 7))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 7}, ids(out))

	// key 不存在：只用内存列表
	node = &FilterNode{Filters: []Filter{NewBlacklistFilter([]int64{2}, adapter, "missing")}}
	out, err = node.Process(ctx, &core.RecommendContext{}, items(1, 2, 5))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5}, ids(out))
}

func TestBlacklistStoreCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	require.NoError(t, kv.Set(ctx, "blacklist", []byte("not json")))

	f := NewBlacklistFilter(nil, NewStoreAdapter(kv), "blacklist")
	_, err := (&FilterNode{Filters: []Filter{f}, Strict: true}).Process(ctx, &core.RecommendContext{}, items(1))
	assert.Error(t, err)

	out, err := (&FilterNode{Filters: []Filter{f}}).Process(ctx, &core.RecommendContext{}, items(1))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(out))
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`item.meta.review_ratio < 0.5`)
	require.NoError(t, err)

	good, bad := core.NewItem(1), core.NewItem(2)
	good.Meta["review_ratio"] = 0.9
	bad.Meta["review_ratio"] = 0.2

	out, err := (&FilterNode{Filters: []Filter{f}}).Process(context.Background(), &core.RecommendContext{}, []*core.Item{good, bad})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(out))

	_, err = NewExprFilter("item.score >")
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }
func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return false, errors.New("boom")
}

func TestFilterNodeErrors(t *testing.T) {
	node := &FilterNode{Filters: []Filter{failingFilter{}}}
	out, err := node.Process(context.Background(), nil, items(1, 2))
	require.NoError(t, err)
	assert.Len(t, out, 2)

	node.Strict = true
	_, err = node.Process(context.Background(), nil, items(1))
	assert.Error(t, err)
}
