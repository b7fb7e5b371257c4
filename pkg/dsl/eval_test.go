package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem(570)
	it.Score = 0.8
	it.Features[core.FeatureContent] = 0.4
	it.Meta["genres"] = []string{"Action", "Strategy"}
	it.Meta["review_ratio"] = 0.45
	it.Meta["total_reviews"] = int64(1200)
	it.PutLabel("recall_source", utils.NewLabel("recall.catalog", "recall"))
	return it
}

func TestProgramMatch(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID: "765",
		Owned:  []core.Interaction{{AppID: 1}, {AppID: 2}},
		Params: map[string]any{"debug": true},
	}
	tests := []struct {
		expr string
		want bool
	}{
		{`item.meta.review_ratio < 0.5`, true},
		{`"Strategy" in item.meta.genres`, true},
		{`"RPG" in item.meta.genres`, false},
		{`item.meta.total_reviews >= 1000 && item.score > 0.7`, true},
		{`item.features.content > 0.5`, false},
		{`label.recall_source == "recall.catalog"`, true},
		{`rctx.owned_count == 2 && rctx.params.debug == true`, true},
		{`item.id == 570`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := p.Match(testItem(), rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	p, err := Compile("")
	require.NoError(t, err)
	assert.Nil(t, p)
	ok, err := p.Match(testItem(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Compile("item.score >")
	assert.Error(t, err)

	_, err = Compile(`"not a bool"`)
	assert.Error(t, err)
}

func TestEvalMissingKey(t *testing.T) {
	_, err := Eval(`item.meta.missing == 1`, testItem(), nil)
	assert.Error(t, err)

	ok, err := Eval(`has(item.meta.missing)`, testItem(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
