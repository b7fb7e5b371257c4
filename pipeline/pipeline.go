package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/gamerec/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链：
// recall.catalog → filter → rank.hybrid → rerank.sort → rerank.normalize → rerank.topn。
type Pipeline struct {
	Nodes []Node

	// Hook 在每个 Node 执行后回调（可选），用于打点与 debug 日志
	Hook func(node Node, in, out int)
}

// Run 依次执行各 Node。Node 之间检查 ctx，取消时直接放弃，不产生任何副作用。
// 候选为空时提前结束，返回空结果而不是错误。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for i, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// 召回之后候选为空即可结束
		if i > 0 && len(cur) == 0 {
			return cur, nil
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		if p.Hook != nil {
			p.Hook(node, len(cur), len(next))
		}
		cur = next
	}
	return cur, nil
}
