// Package catalog 定义游戏目录（CatalogItem）、评价/热度归一化以及目录数据的加载方式。
package catalog

import "strings"

// UnknownCategory 是开发商/发行商为空时使用的占位类别。
const UnknownCategory = "Unknown"

// Game 是目录中的一个游戏。
// TotalReviews / ReviewRatio / PopularityScore 是派生字段，只由 Normalize 根据计数计算。
type Game struct {
	AppID               int64    `json:"appid"`
	Name                string   `json:"name"`
	ReleaseDate         string   `json:"release_date"`
	DetailedDescription string   `json:"detailed_description"`
	ShortDescription    string   `json:"short_description"`
	HeaderImage         string   `json:"header_image"`
	Screenshots         []string `json:"screenshots"`
	Tags                []string `json:"tags"`
	Genres              []string `json:"genres"`
	Developers          []string `json:"developers"`
	Publishers          []string `json:"publishers"`
	Positive            int64    `json:"positive"`
	Negative            int64    `json:"negative"`

	TotalReviews    int64   `json:"total_reviews"`
	ReviewRatio     float64 `json:"review_ratio"`
	PopularityScore float64 `json:"popularity_score"`
}

// Description 返回用于文本特征的描述：详细描述优先，其次简介。
func (g *Game) Description() string {
	if g.DetailedDescription != "" {
		return g.DetailedDescription
	}
	return g.ShortDescription
}

// TagText 返回空格拼接的标签文本。
func (g *Game) TagText() string { return strings.Join(g.Tags, " ") }

// GenreText 返回空格拼接的类型文本。
func (g *Game) GenreText() string { return strings.Join(g.Genres, " ") }

// DeveloperKey 返回开发商类别值：多个开发商以空格拼接，空则为 Unknown。
func (g *Game) DeveloperKey() string { return joinOrUnknown(g.Developers) }

// PublisherKey 返回发行商类别值，规则同 DeveloperKey。
func (g *Game) PublisherKey() string { return joinOrUnknown(g.Publishers) }

func joinOrUnknown(values []string) string {
	if len(values) == 0 {
		return UnknownCategory
	}
	return strings.Join(values, " ")
}
