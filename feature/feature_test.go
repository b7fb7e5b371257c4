package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/catalog"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		stop map[string]struct{}
		want []string
	}{
		{name: "lowercase and split", text: "Open-World RPG", want: []string{"open", "world", "rpg"}},
		{name: "single chars dropped", text: "a b cd 3d", want: []string{"cd", "3d"}},
		{name: "stop words removed", text: "the best of the games", stop: EnglishStopWords, want: []string{"best", "games"}},
		{name: "empty", text: "", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text, tt.stop))
		})
	}
}

func TestTfidfVectorizer(t *testing.T) {
	v := NewTfidfVectorizer(0, nil)
	v.Fit([]string{"rpg fantasy", "rpg action", "puzzle"})

	assert.Equal(t, []string{"action", "fantasy", "puzzle", "rpg"}, v.Vocabulary())

	vec := v.Transform("rpg fantasy")
	require.Equal(t, []int{1, 3}, vec.Indices)
	assert.InDelta(t, 1.0, vec.Norm(), 1e-9)
	// rpg 出现在两篇文档里，idf 更低
	assert.Greater(t, vec.Values[0], vec.Values[1])

	assert.Equal(t, 0, v.Transform("unknown words").NNZ())
}

func TestTfidfVectorizerMaxFeatures(t *testing.T) {
	v := NewTfidfVectorizer(2, nil)
	v.Fit([]string{"rpg rpg rpg action action puzzle", "zombie"})
	assert.Equal(t, []string{"action", "rpg"}, v.Vocabulary())
}

func TestOneHotEncoder(t *testing.T) {
	e := NewOneHotEncoder()
	e.Fit([]string{"Valve", "Unknown", "Valve", "CD Projekt"})
	require.Equal(t, 3, e.Dim())
	assert.Equal(t, []string{"CD Projekt", "Unknown", "Valve"}, e.Categories())

	assert.Equal(t, Vector{Indices: []int{2}, Values: []float64{1}}, e.Transform("Valve"))
	assert.Equal(t, 0, e.Transform("Never Seen").NNZ())
}

func TestVectorOps(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 5, 7}, Values: []float64{4, 1, 9}}
	assert.Equal(t, 11.0, a.Dot(b))
	assert.Equal(t, 7.0, a.DotDense([]float64{1, 0, 3}))

	dst := make([]float64, 6)
	a.AddTo(dst, 2)
	assert.Equal(t, []float64{2, 0, 4, 0, 0, 6}, dst)

	h := Hstack([]Vector{{Indices: []int{1}, Values: []float64{1}}, {}, {Indices: []int{0}, Values: []float64{2}}}, []int{0, 3, 5})
	assert.Equal(t, []int{1, 5}, h.Indices)
}

func testGames() []catalog.Game {
	return catalog.Normalize([]catalog.Game{
		{AppID: 10, Name: "A", DetailedDescription: "Epic fantasy adventure with dragons",
			Tags: []string{"RPG", "Fantasy"}, Genres: []string{"RPG"}, Developers: []string{"X"}, Publishers: []string{"P"},
			Positive: 80, Negative: 20},
		{AppID: 20, Name: "B", ShortDescription: "Fantasy dragons and magic",
			Tags: []string{"RPG"}, Genres: []string{"RPG", "Adventure"}, Developers: []string{"Y"},
			Positive: 40, Negative: 10},
		{AppID: 30, Name: "C", DetailedDescription: "Fast shooter",
			Tags: []string{"FPS"}, Genres: []string{"Action"}, Developers: []string{"X"}, Publishers: []string{"P"},
			Positive: 5, Negative: 95},
	})
}

func TestBuildStore(t *testing.T) {
	s, err := Build(context.Background(), testGames(), DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	dims := s.FieldDims()
	total := 0
	for _, f := range Fields {
		total += dims[f]
	}
	assert.Equal(t, total, s.Dim())
	assert.Equal(t, 2, dims[FieldDeveloper])
	// 空发行商按 Unknown 处理
	assert.Equal(t, 2, dims[FieldPublisher])

	i, ok := s.Index(20)
	require.True(t, ok)
	assert.Equal(t, int64(20), s.AppID(i))
	assert.Equal(t, "B", s.Game(i).Name)
	assert.Equal(t, "Y", s.Developer(i))
	assert.Contains(t, s.GenreTokens(i), "adventure")

	_, ok = s.Index(99)
	assert.False(t, ok)

	for r := 0; r < s.Len(); r++ {
		row := s.Row(r)
		for k := 1; k < row.NNZ(); k++ {
			assert.Less(t, row.Indices[k-1], row.Indices[k])
		}
		assert.Less(t, row.Indices[row.NNZ()-1], s.Dim())
	}
}

func TestBuildStoreEmpty(t *testing.T) {
	s, err := Build(context.Background(), nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Dim())
}

func TestBuildStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, testGames(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s, err := Build(context.Background(), testGames(), DefaultOptions())
	require.NoError(t, err)
	got, ok := FromContext(NewContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
