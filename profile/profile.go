// Package profile 把用户的拥有列表与显式反馈转换为单次请求的训练集与画像信号。
package profile

import (
	"context"
	"sort"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
)

// SaturationMinutes 是游戏时长信号饱和的分钟数（100 小时）。
const SaturationMinutes = 6000

// Multipliers 是显式反馈对训练目标的放大/压低系数。
type Multipliers struct {
	Liked    float64
	Disliked float64
}

func DefaultMultipliers() Multipliers {
	return Multipliers{Liked: 1.5, Disliked: 0.1}
}

// Profile 是一次请求内的用户画像。
type Profile struct {
	// Rows / Targets 是训练集：Store 行号与对应的偏好目标，按行号升序
	Rows    []int
	Targets []float64

	// Developers 是拥有的（且在目录中的）游戏的开发商集合
	Developers map[string]struct{}

	// GenreProfile 是标记为喜欢的游戏的类型词并集
	GenreProfile map[string]struct{}

	// Interacted 是 拥有 ∪ 有反馈 的 appid，永远不作为候选
	Interacted map[int64]struct{}
}

// Empty 表示没有任何可用于训练的样本，调用方应直接返回空结果。
func (p *Profile) Empty() bool { return len(p.Rows) == 0 }

// PlaytimeSignal 把游戏时长映射到 [0,1]，6000 分钟饱和。
func PlaytimeSignal(minutes int64) float64 {
	if minutes <= 0 {
		return 0
	}
	return min(float64(minutes)/SaturationMinutes, 1.0)
}

// Target 根据反馈调整时长信号，得到回归目标。
func (m Multipliers) Target(signal float64, pref core.Preference, labeled bool) float64 {
	if !labeled {
		return signal
	}
	switch pref {
	case core.PreferenceDisliked:
		return signal * m.Disliked
	case core.PreferenceLiked:
		return signal * m.Liked
	default:
		return signal
	}
}

// Build 构建画像。结果只取决于输入集合，与 owned 的顺序无关；
// 同一 appid 重复出现时取最大时长。
func Build(store *feature.Store, owned []core.Interaction, prefs core.Preferences, m Multipliers) *Profile {
	p := &Profile{
		Developers:   make(map[string]struct{}),
		GenreProfile: make(map[string]struct{}),
		Interacted:   make(map[int64]struct{}, len(owned)+len(prefs)),
	}

	playtime := make(map[int64]int64, len(owned))
	for _, in := range owned {
		p.Interacted[in.AppID] = struct{}{}
		if cur, ok := playtime[in.AppID]; !ok || in.PlaytimeMinutes > cur {
			playtime[in.AppID] = in.PlaytimeMinutes
		}
	}
	for appID := range prefs {
		p.Interacted[appID] = struct{}{}
	}

	for appID := range playtime {
		row, ok := store.Index(appID)
		if !ok {
			continue
		}
		p.Rows = append(p.Rows, row)
		p.Developers[store.Developer(row)] = struct{}{}
	}
	sort.Ints(p.Rows)

	p.Targets = make([]float64, len(p.Rows))
	for i, row := range p.Rows {
		appID := store.AppID(row)
		pref, labeled := prefs.Get(appID)
		p.Targets[i] = m.Target(PlaytimeSignal(playtime[appID]), pref, labeled)
	}

	for appID, pref := range prefs {
		if pref != core.PreferenceLiked {
			continue
		}
		row, ok := store.Index(appID)
		if !ok {
			continue
		}
		for tok := range store.GenreTokens(row) {
			p.GenreProfile[tok] = struct{}{}
		}
	}
	return p
}

// TrainingSet 返回训练用的特征行与目标。
func (p *Profile) TrainingSet(store *feature.Store) ([]feature.Vector, []float64) {
	rows := make([]feature.Vector, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = store.Row(r)
	}
	return rows, p.Targets
}

type profileKey struct{}

// NewContext 把已构建的画像放入 ctx，供排序 Node 复用。
func NewContext(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// FromContext 取出请求绑定的画像。
func FromContext(ctx context.Context) (*Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(*Profile)
	return p, ok && p != nil
}
