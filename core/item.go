package core

import "github.com/rushteam/gamerec/pkg/utils"

// Item 是推荐链路中的统一承载结构：一个候选游戏 + 打分过程中的中间信号。
// ID 即 appid；Row 指向 feature.Store 中的行号（-1 表示未知）。
// Features 记录 content/review/popularity 等打分信号，Score 为最终排序依据。
type Item struct {
	ID       int64
	Row      int
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:       id,
		Row:      -1,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Feature 读取打分信号，不存在时返回 0。
func (it *Item) Feature(key string) float64 {
	if it.Features == nil {
		return 0
	}
	return it.Features[key]
}

// 打分信号的 Feature key。
const (
	FeatureContent          = "content"
	FeatureReview           = "review"
	FeaturePopularity       = "popularity"
	FeatureDiversityPenalty = "diversity_penalty"
	FeaturePreferenceBoost  = "preference_boost"
	FeatureNormalizedScore  = "normalized_score"
)
