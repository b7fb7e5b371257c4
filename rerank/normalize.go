package rerank

import (
	"context"
	"math"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
)

// normalizeEpsilon 避免所有分数相同时除零。
const normalizeEpsilon = 1e-6

// ScoreNormalizeNode 把混合分映射到 [1,100] 的展示分：
// 在全部候选上做 z-score，经 logistic 压缩后线性映射到 [1,100]。
// 结果写入 Features["normalized_score"]，不修改 Score，因此不会改变排序。
// 应放在 TopNNode 之前，以便用完整候选集计算均值与方差。
type ScoreNormalizeNode struct{}

func (n *ScoreNormalizeNode) Name() string        { return "rerank.normalize" }
func (n *ScoreNormalizeNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *ScoreNormalizeNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	scores := make([]float64, len(items))
	for i, it := range items {
		scores[i] = it.Score
	}
	for i, v := range NormalizeScores(scores) {
		items[i].Features[core.FeatureNormalizedScore] = v
		items[i].PutLabel("normalized", utils.FloatLabel(v, "rerank"))
	}
	return items, nil
}

// NormalizeScores 计算展示分，输出与输入一一对应、保序，且都在 [1,100] 内。
func NormalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	std := math.Sqrt(variance / float64(len(scores)))

	out := make([]float64, len(scores))
	for i, s := range scores {
		z := (s - mean) / (std + normalizeEpsilon)
		sig := 1 / (1 + math.Exp(-z))
		out[i] = 1 + 99*sig
	}
	return out
}
