package builders

import (
	"fmt"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/conv"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/rerank"
)

func init() {
	config.Register("recall.catalog", BuildCatalogNode)
	config.Register("filter", BuildFilterNode)
	config.Register("filter.interacted", BuildInteractedNode)
	config.Register("filter.blacklist", BuildBlacklistNode)
	config.Register("filter.expr", BuildExprNode)
	config.Register("rank.hybrid", BuildHybridNode)
	config.Register("rerank.sort", BuildSortNode)
	config.Register("rerank.normalize", BuildNormalizeNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildCatalogNode 召回特征库内全部游戏；特征库在请求时从 ctx 绑定。
func BuildCatalogNode(map[string]any) (pipeline.Node, error) {
	return &recall.Catalog{}, nil
}

// BuildFilterNode 组合多个过滤器：
//
//	filters:
//	  - type: interacted
//	  - type: blacklist
//	    item_ids: [730]
//	  - type: expr
//	    expr: 'item.meta.review_ratio < 0.5'
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "interacted":
			filters = append(filters, filter.NewInteractedFilter())
		case "blacklist":
			ids := conv.SliceAnyToInt64(filterMap["item_ids"])
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, ""))
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{
		Filters: filters,
		Strict:  conv.ConfigGet(cfg, "strict", false),
	}, nil
}

// BuildInteractedNode 剔除已拥有或已标注的游戏。
func BuildInteractedNode(map[string]any) (pipeline.Node, error) {
	return &filter.FilterNode{Filters: []filter.Filter{filter.NewInteractedFilter()}}, nil
}

func BuildBlacklistNode(cfg map[string]any) (pipeline.Node, error) {
	ids := conv.SliceAnyToInt64(cfg["item_ids"])
	return &filter.FilterNode{Filters: []filter.Filter{filter.NewBlacklistFilter(ids, nil, "")}}, nil
}

func BuildExprNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := filter.NewExprFilter(conv.ConfigGet(cfg, "expr", ""))
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}, Strict: true}, nil
}

// BuildHybridNode 以默认打分参数为底，按配置覆盖后校验。
func BuildHybridNode(cfg map[string]any) (pipeline.Node, error) {
	c := config.DefaultRecommenderConfig()
	c.ReviewWeight = conv.ConfigGetFloat64(cfg, "review_weight", c.ReviewWeight)
	c.PopularityWeight = conv.ConfigGetFloat64(cfg, "popularity_weight", c.PopularityWeight)
	c.DiversityWeight = conv.ConfigGetFloat64(cfg, "diversity_weight", c.DiversityWeight)
	c.DiversityPenalty = conv.ConfigGetFloat64(cfg, "diversity_penalty", c.DiversityPenalty)
	c.PreferenceBoostMode = conv.ConfigGet(cfg, "preference_boost_mode", c.PreferenceBoostMode)
	c.FlatBoost = conv.ConfigGetFloat64(cfg, "flat_boost", c.FlatBoost)
	c.GenreBoost = conv.ConfigGetFloat64(cfg, "genre_boost", c.GenreBoost)
	c.RidgeAlpha = conv.ConfigGetFloat64(cfg, "ridge_alpha", c.RidgeAlpha)
	c.LikedMultiplier = conv.ConfigGetFloat64(cfg, "liked_multiplier", c.LikedMultiplier)
	c.DislikedMultiplier = conv.ConfigGetFloat64(cfg, "disliked_multiplier", c.DislikedMultiplier)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.HybridNode(), nil
}

func BuildSortNode(map[string]any) (pipeline.Node, error) {
	return &rerank.SortNode{}, nil
}

func BuildNormalizeNode(map[string]any) (pipeline.Node, error) {
	return &rerank.ScoreNormalizeNode{}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
