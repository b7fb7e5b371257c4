package catalog

import (
	"context"
	"sort"
)

// Provider 是目录数据源：文件、数据库或其他离线产物。
type Provider interface {
	Load(ctx context.Context) ([]Game, error)
}

// Snapshot 是一份只读的目录快照。构建后不再修改，可被并发请求共享。
type Snapshot struct {
	games []Game
	index map[int64]int
}

// NewSnapshot 归一化并按 appid 去重（后出现者覆盖），结果按 appid 升序。
func NewSnapshot(games []Game) *Snapshot {
	byID := make(map[int64]Game, len(games))
	for _, g := range games {
		byID[g.AppID] = g
	}
	dedup := make([]Game, 0, len(byID))
	for _, g := range byID {
		dedup = append(dedup, g)
	}
	sort.Slice(dedup, func(i, j int) bool { return dedup[i].AppID < dedup[j].AppID })

	s := &Snapshot{
		games: Normalize(dedup),
		index: make(map[int64]int, len(dedup)),
	}
	for i, g := range s.games {
		s.index[g.AppID] = i
	}
	return s
}

// Len 返回快照中的游戏数。
func (s *Snapshot) Len() int { return len(s.games) }

// Get 按 appid 查找游戏。
func (s *Snapshot) Get(appID int64) (*Game, bool) {
	i, ok := s.index[appID]
	if !ok {
		return nil, false
	}
	return &s.games[i], true
}

// Games 返回全部游戏（调用方不得修改）。
func (s *Snapshot) Games() []Game { return s.games }

// Retained 返回评价总数 >= minReviews 的游戏，顺序与快照一致。
// 阈值作用于评价数量而不是好评比例。
func (s *Snapshot) Retained(minReviews int64) []Game {
	out := make([]Game, 0, len(s.games))
	for _, g := range s.games {
		if g.TotalReviews >= minReviews {
			out = append(out, g)
		}
	}
	return out
}
