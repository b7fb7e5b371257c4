package feature

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/gamerec/catalog"
)

// 各字段在拼接后特征中的顺序。
const (
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldGenres      = "genres"
	FieldDeveloper   = "developer"
	FieldPublisher   = "publisher"
)

// Fields 是固定的字段拼接顺序。
var Fields = []string{FieldDescription, FieldTags, FieldGenres, FieldDeveloper, FieldPublisher}

// Options 控制各文本字段的词表上限。
type Options struct {
	MaxDescriptionTerms int
	MaxTagTerms         int
	MaxGenreTerms       int
}

func DefaultOptions() Options {
	return Options{
		MaxDescriptionTerms: 5000,
		MaxTagTerms:         1000,
		MaxGenreTerms:       100,
	}
}

// Store 是目录的特征模型：拟合好的五个编码器 + 每个游戏一行的稀疏特征矩阵。
// Build 之后不再修改，可在并发请求之间共享；目录刷新时整体重建并替换。
type Store struct {
	games      []catalog.Game
	rows       []Vector
	index      map[int64]int
	genres     []map[string]struct{}
	developers []string

	description *TfidfVectorizer
	tags        *TfidfVectorizer
	genreVec    *TfidfVectorizer
	developer   *OneHotEncoder
	publisher   *OneHotEncoder

	offsets []int
	dim     int
}

// Build 在给定游戏（已按评价数过滤）上拟合全部编码器，并生成特征矩阵。
// 五个编码器相互独立，并发拟合；每个编码器只拟合一次。
func Build(ctx context.Context, games []catalog.Game, opts Options) (*Store, error) {
	n := len(games)
	descDocs := make([]string, n)
	tagDocs := make([]string, n)
	genreDocs := make([]string, n)
	devs := make([]string, n)
	pubs := make([]string, n)
	for i := range games {
		g := &games[i]
		descDocs[i] = g.Description()
		tagDocs[i] = g.TagText()
		genreDocs[i] = g.GenreText()
		devs[i] = g.DeveloperKey()
		pubs[i] = g.PublisherKey()
	}

	s := &Store{
		games:       games,
		description: NewTfidfVectorizer(opts.MaxDescriptionTerms, EnglishStopWords),
		tags:        NewTfidfVectorizer(opts.MaxTagTerms, nil),
		genreVec:    NewTfidfVectorizer(opts.MaxGenreTerms, nil),
		developer:   NewOneHotEncoder(),
		publisher:   NewOneHotEncoder(),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	fit := func(f func()) {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			f()
			return nil
		})
	}
	fit(func() { s.description.Fit(descDocs) })
	fit(func() { s.tags.Fit(tagDocs) })
	fit(func() { s.genreVec.Fit(genreDocs) })
	fit(func() { s.developer.Fit(devs) })
	fit(func() { s.publisher.Fit(pubs) })
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	dims := []int{s.description.Dim(), s.tags.Dim(), s.genreVec.Dim(), s.developer.Dim(), s.publisher.Dim()}
	s.offsets = make([]int, len(dims))
	for i, d := range dims {
		s.offsets[i] = s.dim
		s.dim += d
	}

	s.rows = make([]Vector, n)
	s.index = make(map[int64]int, n)
	s.genres = make([]map[string]struct{}, n)
	s.developers = devs
	for i := range games {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		s.rows[i] = Hstack([]Vector{
			s.description.Transform(descDocs[i]),
			s.tags.Transform(tagDocs[i]),
			s.genreVec.Transform(genreDocs[i]),
			s.developer.Transform(devs[i]),
			s.publisher.Transform(pubs[i]),
		}, s.offsets)
		s.index[games[i].AppID] = i
		s.genres[i] = TokenSet(genreDocs[i])
	}
	return s, nil
}

// Len 返回行数（保留下来的游戏数）。
func (s *Store) Len() int { return len(s.rows) }

// Dim 返回特征维度。
func (s *Store) Dim() int { return s.dim }

// Row 返回第 i 行特征。
func (s *Store) Row(i int) Vector { return s.rows[i] }

// AppID 返回第 i 行对应的 appid。
func (s *Store) AppID(i int) int64 { return s.games[i].AppID }

// Game 返回第 i 行对应的游戏。
func (s *Store) Game(i int) *catalog.Game { return &s.games[i] }

// Index 按 appid 查找行号；不在保留集合中返回 false。
func (s *Store) Index(appID int64) (int, bool) {
	i, ok := s.index[appID]
	return i, ok
}

// GenreTokens 返回第 i 行的类型词集合（调用方不得修改）。
func (s *Store) GenreTokens(i int) map[string]struct{} { return s.genres[i] }

// Developer 返回第 i 行的开发商类别值。
func (s *Store) Developer(i int) string { return s.developers[i] }

// FieldDims 返回各字段的维度，顺序同 Fields。
func (s *Store) FieldDims() map[string]int {
	return map[string]int{
		FieldDescription: s.description.Dim(),
		FieldTags:        s.tags.Dim(),
		FieldGenres:      s.genreVec.Dim(),
		FieldDeveloper:   s.developer.Dim(),
		FieldPublisher:   s.publisher.Dim(),
	}
}

type storeKey struct{}

// NewContext 把本次请求使用的 Store 放入 ctx。
// 请求开始时固定一份 Store，目录热更新不会影响进行中的请求。
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext 取出请求绑定的 Store。
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	return s, ok && s != nil
}
