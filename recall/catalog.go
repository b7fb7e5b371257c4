package recall

import (
	"context"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
)

// Catalog 是全目录召回：特征库中保留下来的每个游戏都是候选。
// 目录规模不大（数万级），逐个打分即可，不需要近似检索。
// Catalog 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Catalog struct {
	// Store 为空时从 ctx 中读取（feature.NewContext）
	Store *feature.Store
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口，按特征库行序输出。
func (r *Catalog) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	store := r.Store
	if store == nil {
		s, ok := feature.FromContext(ctx)
		if !ok {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "recall.catalog: no feature store bound")
		}
		store = s
	}

	out := make([]*core.Item, store.Len())
	for i := range out {
		it := core.NewItem(store.AppID(i))
		it.Row = i
		putMeta(it, store.Game(i))
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out[i] = it
	}
	return out, nil
}

// putMeta 写入供过滤表达式使用的目录属性。
func putMeta(it *core.Item, g *catalog.Game) {
	it.Meta["name"] = g.Name
	it.Meta["genres"] = g.Genres
	it.Meta["tags"] = g.Tags
	it.Meta["developer"] = g.DeveloperKey()
	it.Meta["publisher"] = g.PublisherKey()
	it.Meta["total_reviews"] = g.TotalReviews
	it.Meta["review_ratio"] = g.ReviewRatio
	it.Meta["popularity_score"] = g.PopularityScore
}
