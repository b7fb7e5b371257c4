package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/rank"
	"github.com/rushteam/gamerec/rerank"
)

const pipelineYAML = `
pipeline:
  name: games
  nodes:
    - type: recall.catalog
    - type: filter
      config:
        filters:
          - type: interacted
          - type: blacklist
            item_ids: [730, 570]
          - type: expr
            expr: 'item.meta.review_ratio < 0.5'
    - type: rank.hybrid
      config:
        review_weight: 0.4
        preference_boost_mode: flat
    - type: rerank.sort
    - type: rerank.normalize
    - type: rerank.topn
      config:
        n: 10
`

func TestBuildPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	require.Len(t, p.Nodes, 6)

	names := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"recall.catalog", "filter.node", "rank.hybrid", "rerank.sort", "rerank.normalize", "rerank.topn"}, names)

	fn := p.Nodes[1].(*filter.FilterNode)
	require.Len(t, fn.Filters, 3)
	assert.Equal(t, []int64{730, 570}, fn.Filters[1].(*filter.BlacklistFilter).ItemIDs)

	hn := p.Nodes[2].(*rank.HybridNode)
	assert.Equal(t, 0.4, hn.Weights.Review)
	assert.Equal(t, 0.2, hn.Weights.Popularity)
	assert.Equal(t, rank.BoostFlat, hn.BoostMode)

	assert.Equal(t, 10, p.Nodes[5].(*rerank.TopNNode).N)
}

func TestBuildHybridNodeRejectsWeights(t *testing.T) {
	_, err := BuildHybridNode(map[string]any{"review_weight": 0.7, "popularity_weight": 0.5})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestBuildFilterNodeErrors(t *testing.T) {
	_, err := BuildFilterNode(map[string]any{})
	assert.Error(t, err)

	_, err = BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "exposed"}}})
	assert.Error(t, err)

	_, err = BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "expr", "expr": "item.score >"}}})
	assert.Error(t, err)
}

func TestSingleFilterNodes(t *testing.T) {
	n, err := BuildInteractedNode(nil)
	require.NoError(t, err)
	assert.IsType(t, &filter.InteractedFilter{}, n.(*filter.FilterNode).Filters[0])

	n, err = BuildBlacklistNode(map[string]any{"item_ids": []any{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, n.(*filter.FilterNode).Filters[0].(*filter.BlacklistFilter).ItemIDs)

	_, err = BuildExprNode(map[string]any{"expr": "item.score >"})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
