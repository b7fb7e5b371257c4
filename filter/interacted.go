package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// InteractedFilter 剔除用户已拥有或已给出任意反馈（喜欢/不喜欢）的游戏。
// 推荐 Pipeline 中必须包含，否则已拥有的游戏会被推荐回来。
type InteractedFilter struct {
	interacted map[int64]struct{}
}

func NewInteractedFilter() *InteractedFilter {
	return &InteractedFilter{}
}

func (f *InteractedFilter) Name() string { return "filter.interacted" }

// Prepare 按请求计算一次交互集合。
func (f *InteractedFilter) Prepare(_ context.Context, rctx *core.RecommendContext) (Filter, error) {
	if rctx == nil {
		return &InteractedFilter{interacted: map[int64]struct{}{}}, nil
	}
	return &InteractedFilter{interacted: rctx.Interacted()}, nil
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	set := f.interacted
	if set == nil && rctx != nil {
		set = rctx.Interacted()
	}
	_, ok := set[item.ID]
	return ok, nil
}
