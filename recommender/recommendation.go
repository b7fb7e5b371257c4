package recommender

import (
	"strconv"
	"strings"

	"github.com/rushteam/gamerec/catalog"
)

// Recommendation 是返回给调用方的一条推荐。
// Score 只在开启分数归一化时出现，取值 [1,100]。
type Recommendation struct {
	AppID               string   `json:"appid"`
	Name                string   `json:"name"`
	ReleaseDate         string   `json:"releaseDate"`
	DetailedDescription string   `json:"detailedDescription"`
	ShortDescription    string   `json:"shortDescription"`
	HeaderImage         string   `json:"headerImage"`
	Developer           string   `json:"developer"`
	Publisher           string   `json:"publisher"`
	Screenshots         []string `json:"screenshots"`
	Score               *float64 `json:"score,omitempty"`
}

func fromGame(g *catalog.Game) Recommendation {
	screenshots := g.Screenshots
	if screenshots == nil {
		screenshots = []string{}
	}
	return Recommendation{
		AppID:               strconv.FormatInt(g.AppID, 10),
		Name:                g.Name,
		ReleaseDate:         g.ReleaseDate,
		DetailedDescription: g.DetailedDescription,
		ShortDescription:    g.ShortDescription,
		HeaderImage:         g.HeaderImage,
		Developer:           joinNames(g.Developers),
		Publisher:           joinNames(g.Publishers),
		Screenshots:         screenshots,
	}
}

// joinNames 拼接开发商/发行商列表用于展示，空列表显示为 Unknown
func joinNames(values []string) string {
	if len(values) == 0 {
		return catalog.UnknownCategory
	}
	return strings.Join(values, ", ")
}
