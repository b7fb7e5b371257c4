// Package rank 实现候选打分：内容相似度（每次请求拟合的岭回归）与评价、热度、
// 多样性惩罚、偏好加权的混合。
package rank

import (
	"fmt"
	"math"

	"github.com/rushteam/gamerec/core"
)

// Weights 是混合打分中各信号的权重，剩余的 1 - sum 分给内容分。
type Weights struct {
	Review     float64 `json:"review_weight" yaml:"review_weight"`
	Popularity float64 `json:"popularity_weight" yaml:"popularity_weight"`
	Diversity  float64 `json:"diversity_weight" yaml:"diversity_weight"`
}

func DefaultWeights() Weights {
	return Weights{Review: 0.3, Popularity: 0.2, Diversity: 0.2}
}

// Content 返回内容分的权重。
func (w Weights) Content() float64 {
	return 1 - w.Review - w.Popularity - w.Diversity
}

// Validate 要求每个权重在 [0,1] 内且总和不超过 1。
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"review_weight":     w.Review,
		"popularity_weight": w.Popularity,
		"diversity_weight":  w.Diversity,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return core.ErrInvalidConfig.Wrap(fmt.Errorf("%s must be in [0,1], got %v", name, v))
		}
	}
	// 允许浮点误差，例如 0.3+0.2+0.5
	if sum := w.Review + w.Popularity + w.Diversity; sum > 1+1e-9 {
		return core.ErrInvalidConfig.Wrap(fmt.Errorf("weights sum to %v, must not exceed 1", sum))
	}
	return nil
}

// Signals 是单个候选的各项打分信号。
type Signals struct {
	Content          float64
	Review           float64
	Popularity       float64
	DiversityPenalty float64
	PreferenceBoost  float64
}

// Blend 计算混合分：
//
//	(content_w·content + review_w·review + popularity_w·popularity - diversity_w·penalty) · boost
func Blend(w Weights, s Signals) float64 {
	base := w.Content()*s.Content +
		w.Review*s.Review +
		w.Popularity*s.Popularity -
		w.Diversity*s.DiversityPenalty
	return base * s.PreferenceBoost
}

// Jaccard 返回两个集合的 Jaccard 相似度；任一为空时为 0。
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// BoostMode 决定偏好加权的计算方式。
type BoostMode string

const (
	// BoostFlat 候选本身被标记为喜欢时乘以固定系数
	BoostFlat BoostMode = "flat"
	// BoostGenreSimilarity 按候选与"喜欢"类型画像的 Jaccard 相似度连续加权
	BoostGenreSimilarity BoostMode = "genre_similarity"
)

// ParseBoostMode 解析配置中的模式名，空字符串视为 genre_similarity。
func ParseBoostMode(s string) (BoostMode, error) {
	switch BoostMode(s) {
	case "", BoostGenreSimilarity:
		return BoostGenreSimilarity, nil
	case BoostFlat:
		return BoostFlat, nil
	default:
		return "", core.ErrInvalidConfig.Wrap(fmt.Errorf("unknown preference boost mode %q", s))
	}
}
