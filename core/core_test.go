package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/pkg/utils"
)

func TestDomainErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", ErrOwnershipUnavailable.Wrap(errors.New("dial tcp")))

	assert.ErrorIs(t, wrapped, ErrOwnershipUnavailable)
	assert.NotErrorIs(t, wrapped, ErrPreferenceUnavailable)
	assert.NotErrorIs(t, wrapped, ErrNoOwnedGames)
	assert.True(t, IsUnavailable(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "dial tcp")

	de := GetDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, ModuleOwnership, de.Module)

	assert.True(t, IsNotFound(ErrNoOwnedGames))
	assert.True(t, IsInvalidInput(ErrInvalidConfig))
	assert.False(t, IsDomainError(errors.New("plain")))
}

func TestParsePreference(t *testing.T) {
	p, err := ParsePreference("liked")
	require.NoError(t, err)
	assert.Equal(t, PreferenceLiked, p)

	_, err = ParsePreference("meh")
	assert.True(t, IsInvalidInput(err))

	var prefs Preferences
	_, ok := prefs.Get(1)
	assert.False(t, ok)
}

func TestInteracted(t *testing.T) {
	rctx := &RecommendContext{
		Owned:       []Interaction{{AppID: 1}, {AppID: 2}},
		Preferences: Preferences{2: PreferenceLiked, 3: PreferenceDisliked},
	}
	assert.Equal(t, map[int64]struct{}{1: {}, 2: {}, 3: {}}, rctx.Interacted())
	assert.Empty(t, (&RecommendContext{}).Interacted())
}

func TestLabels(t *testing.T) {
	rctx := &RecommendContext{}
	_, ok := rctx.GetLabel("segment")
	assert.False(t, ok)
	rctx.PutLabel("segment", utils.Label{Value: "rpg", Source: "profile"})
	lbl, ok := rctx.GetLabel("segment")
	require.True(t, ok)
	assert.Equal(t, "rpg", lbl.Value)

	it := NewItem(730)
	assert.Equal(t, -1, it.Row)
	assert.Equal(t, 0.0, it.Feature(FeatureContent))
	it.PutLabel("recall_source", utils.Label{Value: "recall.catalog", Source: "recall"})
	assert.Equal(t, "recall.catalog", it.Labels["recall_source"].Value)
}
