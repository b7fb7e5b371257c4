// Package recommender 组装完整的推荐链路：目录快照 + 特征库 + Pipeline。
//
// 特征库与目录快照构建一次后只读，重建（Reload）在旁路完成后原子替换，
// 进行中的请求继续使用它开始时的快照。每个请求独立拟合自己的模型，不修改任何共享状态。
package recommender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/config"
	_ "github.com/rushteam/gamerec/config/builders"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/logging"
	"github.com/rushteam/gamerec/metrics"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/rerank"
)

// state 是一份不可变的目录快照及其特征库。
type state struct {
	snapshot *catalog.Snapshot
	store    *feature.Store
	builtAt  time.Time
}

// Recommender 是推荐服务的门面。
type Recommender struct {
	cfg      config.RecommenderConfig
	pipeline *pipeline.Pipeline

	owners    core.OwnershipFetcher
	prefs     core.PreferenceStore
	provider  catalog.Provider
	blacklist core.Store

	state    atomic.Pointer[state]
	reloadMu sync.Mutex
}

// Option 配置 Recommender 的外部协作方。
type Option func(*Recommender)

// WithOwnership 设置拥有列表数据源（RecommendForUser 需要）。
func WithOwnership(f core.OwnershipFetcher) Option {
	return func(r *Recommender) { r.owners = f }
}

// WithPreferences 设置反馈存储。
func WithPreferences(s core.PreferenceStore) Option {
	return func(r *Recommender) { r.prefs = s }
}

// WithProvider 设置目录数据源（ReloadFromProvider 需要）。
func WithProvider(p catalog.Provider) Option {
	return func(r *Recommender) { r.provider = p }
}

// WithBlacklistStore 让默认链路额外读取 KV 中的黑名单（cfg.BlacklistKey）。
func WithBlacklistStore(s core.Store) Option {
	return func(r *Recommender) { r.blacklist = s }
}

// New 校验配置、构建 Pipeline 并基于 games 构建首份特征库。
func New(ctx context.Context, cfg config.RecommenderConfig, games []catalog.Game, opts ...Option) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Recommender{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}

	p, err := r.buildPipeline()
	if err != nil {
		return nil, err
	}
	p.Hook = observeNode
	r.pipeline = p

	st, err := r.build(ctx, games)
	if err != nil {
		return nil, err
	}
	r.state.Store(st)
	return r, nil
}

// buildPipeline 优先使用 cfg.PipelineFile，否则按配置组装默认链路：
// recall.catalog → filter → rank.hybrid → rerank.sort → [rerank.normalize] → rerank.topn
func (r *Recommender) buildPipeline() (*pipeline.Pipeline, error) {
	if r.cfg.PipelineFile != "" {
		pc, err := pipeline.LoadFromYAML(r.cfg.PipelineFile)
		if err != nil {
			return nil, core.ErrInvalidConfig.Wrap(err)
		}
		if err := config.ValidatePipelineConfig(pc); err != nil {
			return nil, core.ErrInvalidConfig.Wrap(err)
		}
		p, err := pc.BuildPipeline(config.DefaultFactory())
		if err != nil {
			return nil, core.ErrInvalidConfig.Wrap(err)
		}
		p.Nodes = ensureInteractedFilter(p.Nodes)
		return p, nil
	}

	filters := []filter.Filter{filter.NewInteractedFilter()}
	if len(r.cfg.Blacklist) > 0 || (r.blacklist != nil && r.cfg.BlacklistKey != "") {
		var adapter *filter.StoreAdapter
		if r.blacklist != nil {
			adapter = filter.NewStoreAdapter(r.blacklist)
		}
		filters = append(filters, filter.NewBlacklistFilter(r.cfg.Blacklist, adapter, r.cfg.BlacklistKey))
	}
	if r.cfg.FilterExpr != "" {
		f, err := filter.NewExprFilter(r.cfg.FilterExpr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	nodes := []pipeline.Node{
		&recall.Catalog{},
		&filter.FilterNode{Filters: filters},
		r.cfg.HybridNode(),
		&rerank.SortNode{},
	}
	if r.cfg.EnableScoreNormalization {
		nodes = append(nodes, &rerank.ScoreNormalizeNode{})
	}
	nodes = append(nodes, &rerank.TopNNode{N: r.cfg.DefaultTopN})
	return &pipeline.Pipeline{Nodes: nodes}, nil
}

// ensureInteractedFilter 保证已拥有/已标注的游戏在打分与截断之前被剔除：
// 自定义链路缺少 filter.interacted 时，插在召回节点之后。
func ensureInteractedFilter(nodes []pipeline.Node) []pipeline.Node {
	insertAt := len(nodes)
	for i, n := range nodes {
		if fn, ok := n.(*filter.FilterNode); ok {
			for _, f := range fn.Filters {
				if _, ok := f.(*filter.InteractedFilter); ok {
					return nodes
				}
			}
		}
		if insertAt == len(nodes) && n.Kind() != pipeline.KindRecall {
			insertAt = i
		}
	}
	guard := &filter.FilterNode{Filters: []filter.Filter{filter.NewInteractedFilter()}}
	out := make([]pipeline.Node, 0, len(nodes)+1)
	out = append(out, nodes[:insertAt]...)
	out = append(out, guard)
	return append(out, nodes[insertAt:]...)
}

// ownedInStore 返回在特征库中的拥有记录数。
func ownedInStore(store *feature.Store, owned []core.Interaction) int {
	n := 0
	for _, in := range owned {
		if _, ok := store.Index(in.AppID); ok {
			n++
		}
	}
	return n
}

func observeNode(node pipeline.Node, _, out int) {
	if node.Kind() == pipeline.KindRank {
		metrics.CandidatesScored.Add(float64(out))
	}
}

// build 计算派生字段、按评价数过滤并拟合特征库。不触碰当前 state。
func (r *Recommender) build(ctx context.Context, games []catalog.Game) (*state, error) {
	start := time.Now()
	snap := catalog.NewSnapshot(games)
	retained := snap.Retained(r.cfg.MinReviews)
	store, err := feature.Build(ctx, retained, r.cfg.FeatureOptions())
	if err != nil {
		return nil, err
	}

	metrics.CatalogItems.WithLabelValues("total").Set(float64(snap.Len()))
	metrics.CatalogItems.WithLabelValues("retained").Set(float64(store.Len()))
	metrics.FeatureDimension.Set(float64(store.Dim()))

	ev := logging.Info().
		Int("games", snap.Len()).
		Int("retained", store.Len()).
		Int("dim", store.Dim()).
		Dur("took", time.Since(start))
	for field, dim := range store.FieldDims() {
		ev = ev.Int("dim_"+field, dim)
	}
	ev.Msg("feature store built")

	return &state{snapshot: snap, store: store, builtAt: time.Now()}, nil
}

// Reload 用新的目录数据重建特征库，成功后原子替换；失败时保留旧状态。
func (r *Recommender) Reload(ctx context.Context, games []catalog.Game) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	st, err := r.build(ctx, games)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		logging.Error().Err(err).Msg("catalog reload failed")
		return err
	}
	r.state.Store(st)
	metrics.CatalogReloads.WithLabelValues("success").Inc()
	return nil
}

// ReloadFromProvider 从配置的目录数据源重新加载。
func (r *Recommender) ReloadFromProvider(ctx context.Context) error {
	if r.provider == nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotSupported, "catalog: no provider configured")
	}
	games, err := r.provider.Load(ctx)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load catalog: %w", err)
	}
	return r.Reload(ctx, games)
}

// Watch 按固定间隔从数据源重建，直到 ctx 结束。
func (r *Recommender) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.provider == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.ReloadFromProvider(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Warn().Err(err).Msg("periodic catalog reload failed")
			}
		}
	}
}

// Stats 描述当前生效的快照。
type Stats struct {
	Games    int       `json:"games"`
	Retained int       `json:"retained"`
	Dim      int       `json:"dim"`
	BuiltAt  time.Time `json:"built_at"`
}

func (r *Recommender) Stats() Stats {
	st := r.state.Load()
	return Stats{
		Games:    st.snapshot.Len(),
		Retained: st.store.Len(),
		Dim:      st.store.Dim(),
		BuiltAt:  st.builtAt,
	}
}

// Preferences 返回配置的反馈存储，可能为 nil。
func (r *Recommender) Preferences() core.PreferenceStore { return r.prefs }

// Recommend 为一组拥有记录和反馈生成推荐。
//
// owned 为空或没有任何拥有的游戏在特征库中时返回空列表（不是错误）；
// topN <= 0 时使用 default_top_n，超过 max_top_n 时截到上限。
func (r *Recommender) Recommend(
	ctx context.Context,
	owned []core.Interaction,
	topN int,
	prefs core.Preferences,
) ([]Recommendation, error) {
	start := time.Now()
	defer func() { metrics.RecommendDuration.Observe(time.Since(start).Seconds()) }()

	st := r.state.Load()
	if len(owned) == 0 {
		metrics.EmptyResults.WithLabelValues("no_owned_games").Inc()
		return []Recommendation{}, nil
	}

	// 画像由 rank.hybrid 用自己的反馈系数构建，这里只判断是否有可训练的样本
	inCatalog := ownedInStore(st.store, owned)
	if inCatalog == 0 {
		metrics.EmptyResults.WithLabelValues("not_in_catalog").Inc()
		logging.Ctx(ctx).Debug().Int("owned", len(owned)).Msg("no owned games in catalog")
		return []Recommendation{}, nil
	}

	rctx := &core.RecommendContext{
		Owned:       owned,
		Preferences: prefs,
		Params:      map[string]any{rerank.ParamTopN: r.clampTopN(topN)},
	}
	ctx = feature.NewContext(ctx, st.store)

	items, err := r.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	// buildPipeline 已保证截断前剔除；自定义 Node 仍可能重新引入候选
	interacted := rctx.Interacted()
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		if _, ok := interacted[it.ID]; ok {
			continue
		}
		row := it.Row
		if row < 0 {
			var ok bool
			if row, ok = st.store.Index(it.ID); !ok {
				continue
			}
		}
		rec := fromGame(st.store.Game(row))
		if v, ok := it.Features[core.FeatureNormalizedScore]; ok {
			score := v
			rec.Score = &score
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		metrics.EmptyResults.WithLabelValues("no_candidates").Inc()
	}
	logging.Ctx(ctx).Debug().
		Int("owned", len(owned)).
		Int("in_catalog", inCatalog).
		Int("results", len(out)).
		Dur("took", time.Since(start)).
		Msg("recommend")
	return out, nil
}

// RecommendForUser 拉取用户的拥有列表与反馈后推荐。
// 拥有列表为空时返回 ErrNoOwnedGames，数据源故障原样返回对应的领域错误。
func (r *Recommender) RecommendForUser(ctx context.Context, userID string, topN int) ([]Recommendation, error) {
	if r.owners == nil {
		return nil, core.NewDomainError(core.ModuleOwnership, core.ErrorCodeNotSupported, "ownership: no fetcher configured")
	}
	owned, err := r.owners.OwnedGames(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, core.ErrNoOwnedGames
	}

	var prefs core.Preferences
	if r.prefs != nil {
		prefs, err = r.prefs.List(ctx, userID)
		if err != nil {
			if core.IsDomainError(err) {
				return nil, err
			}
			return nil, core.ErrPreferenceUnavailable.Wrap(err)
		}
	}
	return r.Recommend(ctx, owned, topN, prefs)
}

func (r *Recommender) clampTopN(n int) int {
	if n <= 0 {
		n = r.cfg.DefaultTopN
	}
	if r.cfg.MaxTopN > 0 && n > r.cfg.MaxTopN {
		n = r.cfg.MaxTopN
	}
	return n
}
