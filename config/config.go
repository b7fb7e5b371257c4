// Package config 定义服务配置（默认值 → YAML 文件 → GAMEREC_ 环境变量）与 Pipeline Node 注册表。
package config

import (
	"time"

	"github.com/rushteam/gamerec/feature"
	"github.com/rushteam/gamerec/logging"
	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/profile"
	"github.com/rushteam/gamerec/rank"
	"github.com/rushteam/gamerec/steam"
)

// Config 是服务的完整配置。
type Config struct {
	Recommender RecommenderConfig `koanf:"recommender"`
	Server      ServerConfig      `koanf:"server"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Steam       steam.Config      `koanf:"steam"`
	Logging     logging.Config    `koanf:"logging"`
}

// RecommenderConfig 收敛了打分链路的全部可调参数。
type RecommenderConfig struct {
	// MinReviews 评价总数低于该值的游戏不进入特征库，既不会被推荐也不参与训练
	MinReviews int64 `koanf:"min_reviews" validate:"gte=0"`

	ReviewWeight     float64 `koanf:"review_weight" validate:"gte=0,lte=1"`
	PopularityWeight float64 `koanf:"popularity_weight" validate:"gte=0,lte=1"`
	DiversityWeight  float64 `koanf:"diversity_weight" validate:"gte=0,lte=1"`

	DislikedMultiplier float64 `koanf:"disliked_multiplier" validate:"gte=0"`
	LikedMultiplier    float64 `koanf:"liked_multiplier" validate:"gte=0"`
	DiversityPenalty   float64 `koanf:"diversity_penalty" validate:"gte=0"`

	PreferenceBoostMode string  `koanf:"preference_boost_mode" validate:"oneof=flat genre_similarity"`
	FlatBoost           float64 `koanf:"flat_boost" validate:"gt=0"`
	GenreBoost          float64 `koanf:"genre_boost" validate:"gte=0"`

	EnableScoreNormalization bool `koanf:"enable_score_normalization"`

	DefaultTopN int     `koanf:"default_top_n" validate:"gt=0"`
	MaxTopN     int     `koanf:"max_top_n" validate:"gte=0"`
	RidgeAlpha  float64 `koanf:"ridge_alpha" validate:"gt=0"`

	MaxDescriptionTerms int `koanf:"max_description_terms" validate:"gte=0"`
	MaxTagTerms         int `koanf:"max_tag_terms" validate:"gte=0"`
	MaxGenreTerms       int `koanf:"max_genre_terms" validate:"gte=0"`

	// FilterExpr 是可选的 CEL 过滤表达式，为 true 的候选被移除
	FilterExpr string `koanf:"filter_expr"`
	// Blacklist 是运营屏蔽的 appid
	Blacklist []int64 `koanf:"blacklist"`
	// BlacklistKey 非空时额外从 KV 存储读取黑名单
	BlacklistKey string `koanf:"blacklist_key"`

	// PipelineFile 非空时从 YAML 构建 Pipeline，替代默认链路
	PipelineFile string `koanf:"pipeline_file"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	// AdminToken 非空时 /admin/* 需要 Bearer token
	AdminToken string `koanf:"admin_token"`
}

// CatalogConfig 指定目录数据源。
type CatalogConfig struct {
	// Source: file（元数据 JSON）或 sqlite（games 表）
	Source   string `koanf:"source" validate:"oneof=file sqlite"`
	Path     string `koanf:"path"`
	Database string `koanf:"database"`
	// ReloadInterval > 0 时定期重建特征库
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// PreferencesConfig 指定反馈存储后端。
type PreferencesConfig struct {
	Backend   string      `koanf:"backend" validate:"oneof=memory redis sqlite"`
	KeyPrefix string      `koanf:"key_prefix"`
	Redis     RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
}

func defaultRecommenderConfig() RecommenderConfig {
	w := rank.DefaultWeights()
	m := profile.DefaultMultipliers()
	opts := feature.DefaultOptions()
	return RecommenderConfig{
		MinReviews:          100,
		ReviewWeight:        w.Review,
		PopularityWeight:    w.Popularity,
		DiversityWeight:     w.Diversity,
		DislikedMultiplier:  m.Disliked,
		LikedMultiplier:     m.Liked,
		DiversityPenalty:    0.5,
		PreferenceBoostMode: string(rank.BoostGenreSimilarity),
		FlatBoost:           1.5,
		GenreBoost:          0.5,
		DefaultTopN:         20,
		MaxTopN:             100,
		RidgeAlpha:          model.DefaultAlpha,
		MaxDescriptionTerms: opts.MaxDescriptionTerms,
		MaxTagTerms:         opts.MaxTagTerms,
		MaxGenreTerms:       opts.MaxGenreTerms,
	}
}

// DefaultRecommenderConfig 返回默认的打分参数。
func DefaultRecommenderConfig() RecommenderConfig { return defaultRecommenderConfig() }

func defaultConfig() *Config {
	lc := logging.DefaultConfig()
	lc.Output = nil
	return &Config{
		Recommender: defaultRecommenderConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:   "file",
			Path:     "data/steam_games_metadata.json",
			Database: "gamerec.db",
		},
		Preferences: PreferencesConfig{
			Backend:   "sqlite",
			KeyPrefix: "pref",
			Redis:     RedisConfig{Addr: "127.0.0.1:6379"},
		},
		Steam:   steam.DefaultConfig(),
		Logging: lc,
	}
}

// Default 返回默认配置。
func Default() *Config { return defaultConfig() }

// Weights 返回混合打分权重。
func (c RecommenderConfig) Weights() rank.Weights {
	return rank.Weights{Review: c.ReviewWeight, Popularity: c.PopularityWeight, Diversity: c.DiversityWeight}
}

// Multipliers 返回反馈对训练目标的系数。
func (c RecommenderConfig) Multipliers() profile.Multipliers {
	return profile.Multipliers{Liked: c.LikedMultiplier, Disliked: c.DislikedMultiplier}
}

// FeatureOptions 返回特征库的词表上限。
func (c RecommenderConfig) FeatureOptions() feature.Options {
	return feature.Options{
		MaxDescriptionTerms: c.MaxDescriptionTerms,
		MaxTagTerms:         c.MaxTagTerms,
		MaxGenreTerms:       c.MaxGenreTerms,
	}
}

// HybridNode 按配置构建混合打分 Node（特征库在请求时从 ctx 绑定）。
func (c RecommenderConfig) HybridNode() *rank.HybridNode {
	mode, _ := rank.ParseBoostMode(c.PreferenceBoostMode)
	return &rank.HybridNode{
		Weights:          c.Weights(),
		DiversityPenalty: c.DiversityPenalty,
		BoostMode:        mode,
		FlatBoost:        c.FlatBoost,
		GenreBoost:       c.GenreBoost,
		Alpha:            c.RidgeAlpha,
		Multipliers:      c.Multipliers(),
	}
}
