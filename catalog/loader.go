package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
)

// Static 是内存中的目录数据源，常用于测试与演示。
type Static []Game

func (s Static) Load(context.Context) ([]Game, error) {
	out := make([]Game, len(s))
	copy(out, s)
	return out, nil
}

// FileLoader 从 Steam 元数据 JSON 文件加载目录。
// 文件为 { "<appid>": {...}, ... }；缺失字段按零值处理，tags 可以是对象（取 key）或数组。
type FileLoader struct {
	Path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// rawGame 对应元数据文件中的单条记录
type rawGame struct {
	Name                string          `json:"name"`
	ReleaseDate         string          `json:"release_date"`
	DetailedDescription string          `json:"detailed_description"`
	AboutTheGame        string          `json:"about_the_game"`
	ShortDescription    string          `json:"short_description"`
	HeaderImage         string          `json:"header_image"`
	Screenshots         []string        `json:"screenshots"`
	Genres              []string        `json:"genres"`
	Tags                json.RawMessage `json:"tags"`
	Positive            int64           `json:"positive"`
	Negative            int64           `json:"negative"`
	Developers          []string        `json:"developers"`
	Publishers          []string        `json:"publishers"`
}

func (l *FileLoader) Load(ctx context.Context) ([]Game, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseMetadata(data)
}

// ParseMetadata 解析元数据 JSON。appid 不是整数的记录会被跳过。
func ParseMetadata(data []byte) ([]Game, error) {
	var raw map[string]rawGame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog json: %w", err)
	}

	games := make([]Game, 0, len(raw))
	for key, r := range raw {
		appID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		detailed := r.DetailedDescription
		if detailed == "" {
			detailed = r.AboutTheGame
		}
		games = append(games, Game{
			AppID:               appID,
			Name:                r.Name,
			ReleaseDate:         r.ReleaseDate,
			DetailedDescription: detailed,
			ShortDescription:    r.ShortDescription,
			HeaderImage:         r.HeaderImage,
			Screenshots:         r.Screenshots,
			Genres:              r.Genres,
			Tags:                parseTags(r.Tags),
			Positive:            r.Positive,
			Negative:            r.Negative,
			Developers:          r.Developers,
			Publishers:          r.Publishers,
		})
	}
	sort.Slice(games, func(i, j int) bool { return games[i].AppID < games[j].AppID })
	return games, nil
}

// parseTags 兼容 {"RPG": 120, "Indie": 80} 与 ["RPG", "Indie"] 两种格式。
func parseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var votes map[string]any
	if err := json.Unmarshal(raw, &votes); err != nil {
		return nil
	}
	tags := make([]string, 0, len(votes))
	for k := range votes {
		tags = append(tags, k)
	}
	sort.Strings(tags)
	return tags
}
