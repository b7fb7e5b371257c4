package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 true 的候选被移除。
// 例如 `item.meta.review_ratio < 0.4` 或 `"Early Access" in item.meta.genres`。
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式，非法表达式在构建时即返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.ErrInvalidConfig.Wrap(err)
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.prg == nil || item == nil {
		return false, nil
	}
	return f.prg.Match(item, rctx)
}
