package rank

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
	"github.com/rushteam/gamerec/profile"
)

// HybridNode 是混合打分 Node：
//   - 用本次请求的用户画像拟合岭回归，预测每个候选的内容分
//   - 与评价比例、热度、多样性惩罚、偏好加权混合为 item.Score
//   - 写入 Features（各项信号）与 labels：rank_model
//
// 不排序，排序由 rerank.SortNode 负责。
type HybridNode struct {
	// Store 为空时从 ctx 中读取（feature.NewContext）
	Store *feature.Store

	Weights          Weights
	DiversityPenalty float64
	BoostMode        BoostMode
	FlatBoost        float64
	GenreBoost       float64
	Alpha            float64
	Multipliers      profile.Multipliers
}

// NewHybridNode 返回使用默认参数的 HybridNode。
func NewHybridNode(store *feature.Store) *HybridNode {
	return &HybridNode{
		Store:            store,
		Weights:          DefaultWeights(),
		DiversityPenalty: 0.5,
		BoostMode:        BoostGenreSimilarity,
		FlatBoost:        1.5,
		GenreBoost:       0.5,
		Alpha:            model.DefaultAlpha,
		Multipliers:      profile.DefaultMultipliers(),
	}
}

func (n *HybridNode) Name() string        { return "rank.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HybridNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	store := n.Store
	if store == nil {
		s, ok := feature.FromContext(ctx)
		if !ok {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "rank.hybrid: no feature store bound")
		}
		store = s
	}

	prof, ok := profile.FromContext(ctx)
	if !ok {
		prof = profile.Build(store, rctx.Owned, rctx.Preferences, n.Multipliers)
	}
	if prof.Empty() {
		return nil, nil
	}

	rows, y := prof.TrainingSet(store)
	reg, err := model.FitRidge(rows, y, store.Dim(), n.Alpha)
	if err != nil {
		return nil, err
	}

	out := items[:0]
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Row < 0 {
			row, ok := store.Index(it.ID)
			if !ok {
				continue
			}
			it.Row = row
		}
		s := n.signals(store, it.Row, reg, prof, rctx.Preferences)
		it.Features[core.FeatureContent] = s.Content
		it.Features[core.FeatureReview] = s.Review
		it.Features[core.FeaturePopularity] = s.Popularity
		it.Features[core.FeatureDiversityPenalty] = s.DiversityPenalty
		it.Features[core.FeaturePreferenceBoost] = s.PreferenceBoost
		it.Score = Blend(n.Weights, s)
		it.PutLabel("rank_model", utils.Label{Value: reg.Name(), Source: "rank"})
		out = append(out, it)
	}
	return out, nil
}

func (n *HybridNode) signals(
	store *feature.Store,
	row int,
	reg model.Regressor,
	prof *profile.Profile,
	prefs core.Preferences,
) Signals {
	g := store.Game(row)
	s := Signals{
		Content:         reg.Predict(store.Row(row)),
		Review:          g.ReviewRatio,
		Popularity:      g.PopularityScore,
		PreferenceBoost: 1,
	}
	if _, ok := prof.Developers[store.Developer(row)]; ok {
		s.DiversityPenalty = n.DiversityPenalty
	}
	switch n.BoostMode {
	case BoostFlat:
		// 喜欢的游戏通常已在过滤阶段剔除，只有自定义 Pipeline 去掉过滤时才会命中
		if p, ok := prefs.Get(g.AppID); ok && p == core.PreferenceLiked {
			s.PreferenceBoost = n.FlatBoost
		}
	default:
		s.PreferenceBoost = 1 + n.GenreBoost*Jaccard(store.GenreTokens(row), prof.GenreProfile)
	}
	return s
}
