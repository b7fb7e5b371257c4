package rerank

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/conv"
)

// ParamTopN 是请求级 top_n 参数名（rctx.Params），优先于节点上的 N。
const ParamTopN = "top_n"

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
// 必须放在 SortNode（以及可选的 ScoreNormalizeNode）之后。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.HybridNode{...},   // 打分
//	        &rerank.SortNode{},      // 排序
//	        &rerank.TopNNode{N: 20}, // 截取 Top 20
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，则返回所有物品（不截断）
	// 如果 N > len(items)，则返回所有物品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil {
		if v, ok := rctx.Params[ParamTopN]; ok {
			if k, ok := conv.ToInt64(v); ok && k > 0 {
				limit = int(k)
			}
		}
	}

	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
