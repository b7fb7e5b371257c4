package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameRecord 是 games 表的行结构，列表字段以 JSON 序列化存储。
type GameRecord struct {
	AppID               int64    `gorm:"column:appid;primaryKey;autoIncrement:false"`
	Name                string   `gorm:"column:name;not null"`
	ReleaseDate         string   `gorm:"column:release_date"`
	DetailedDescription string   `gorm:"column:detailed_description"`
	ShortDescription    string   `gorm:"column:short_description"`
	HeaderImage         string   `gorm:"column:header_image"`
	Screenshots         []string `gorm:"column:screenshots;serializer:json"`
	Genres              []string `gorm:"column:genres;serializer:json"`
	Tags                []string `gorm:"column:tags;serializer:json"`
	Developers          []string `gorm:"column:developer;serializer:json"`
	Publishers          []string `gorm:"column:publisher;serializer:json"`
	Positive            int64    `gorm:"column:positive;default:0"`
	Negative            int64    `gorm:"column:negative;default:0"`
	TotalReviews        int64    `gorm:"column:total_reviews;default:0;index"`
	ReviewRatio         float64  `gorm:"column:review_ratio;default:0"`
	PopularityScore     float64  `gorm:"column:popularity_score;default:0"`
}

func (GameRecord) TableName() string { return "games" }

func recordFromGame(g Game) GameRecord {
	return GameRecord{
		AppID:               g.AppID,
		Name:                g.Name,
		ReleaseDate:         g.ReleaseDate,
		DetailedDescription: g.DetailedDescription,
		ShortDescription:    g.ShortDescription,
		HeaderImage:         g.HeaderImage,
		Screenshots:         g.Screenshots,
		Genres:              g.Genres,
		Tags:                g.Tags,
		Developers:          g.Developers,
		Publishers:          g.Publishers,
		Positive:            g.Positive,
		Negative:            g.Negative,
		TotalReviews:        g.TotalReviews,
		ReviewRatio:         g.ReviewRatio,
		PopularityScore:     g.PopularityScore,
	}
}

func (r *GameRecord) toGame() Game {
	return Game{
		AppID:               r.AppID,
		Name:                r.Name,
		ReleaseDate:         r.ReleaseDate,
		DetailedDescription: r.DetailedDescription,
		ShortDescription:    r.ShortDescription,
		HeaderImage:         r.HeaderImage,
		Screenshots:         r.Screenshots,
		Genres:              r.Genres,
		Tags:                r.Tags,
		Developers:          r.Developers,
		Publishers:          r.Publishers,
		Positive:            r.Positive,
		Negative:            r.Negative,
		TotalReviews:        r.TotalReviews,
		ReviewRatio:         r.ReviewRatio,
		PopularityScore:     r.PopularityScore,
	}
}

// Repository 是基于 gorm 的目录存储（默认 sqlite），同时作为 Provider 使用。
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate 创建/更新 games 表。
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&GameRecord{})
}

// Load 读取全部游戏，按 appid 升序。
func (r *Repository) Load(ctx context.Context) ([]Game, error) {
	var rows []GameRecord
	if err := r.db.WithContext(ctx).Order("appid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	games := make([]Game, len(rows))
	for i := range rows {
		games[i] = rows[i].toGame()
	}
	return games, nil
}

// Import 按批写入游戏（appid 冲突时覆盖），随后按全表最大评价数刷新热度列。
func (r *Repository) Import(ctx context.Context, games []Game, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	db := r.db.WithContext(ctx)
	written := 0
	for start := 0; start < len(games); start += batchSize {
		end := min(start+batchSize, len(games))
		batch := make([]GameRecord, 0, end-start)
		for _, g := range games[start:end] {
			g.Positive, g.Negative = clampCount(g.Positive), clampCount(g.Negative)
			g.TotalReviews = g.Positive + g.Negative
			g.ReviewRatio = ReviewRatio(g.Positive, g.Negative)
			batch = append(batch, recordFromGame(g))
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appid"}},
			UpdateAll: true,
		}).Create(&batch).Error
		if err != nil {
			return written, fmt.Errorf("import games [%d:%d]: %w", start, end, err)
		}
		written += len(batch)
	}
	if err := r.refreshPopularity(ctx); err != nil {
		return written, err
	}
	return written, nil
}

func (r *Repository) refreshPopularity(ctx context.Context) error {
	var maxTotal int64
	err := r.db.WithContext(ctx).Model(&GameRecord{}).
		Select("COALESCE(MAX(total_reviews), 0)").Scan(&maxTotal).Error
	if err != nil {
		return fmt.Errorf("max total reviews: %w", err)
	}
	err = r.db.WithContext(ctx).Model(&GameRecord{}).Where("1 = 1").
		Update("popularity_score", gorm.Expr("CAST(total_reviews AS REAL) / (? + ?)", maxTotal, Epsilon)).Error
	if err != nil {
		return fmt.Errorf("update popularity: %w", err)
	}
	return nil
}
