package core

import (
	"context"
	"strconv"
)

// Interaction 是用户的一条拥有记录：appid + 累计游戏时长（分钟）。
type Interaction struct {
	AppID           int64 `json:"appid"`
	PlaytimeMinutes int64 `json:"playtime_forever"`
}

// Preference 是用户对某个游戏的显式反馈。
type Preference string

const (
	PreferenceLiked    Preference = "liked"
	PreferenceDisliked Preference = "disliked"
)

// Valid 判断是否为已知的反馈值。
func (p Preference) Valid() bool {
	return p == PreferenceLiked || p == PreferenceDisliked
}

// ParsePreference 解析反馈字符串，非法值返回 INVALID_INPUT。
func ParsePreference(s string) (Preference, error) {
	p := Preference(s)
	if !p.Valid() {
		return "", NewDomainError(ModulePreference, ErrorCodeInvalidInput, "preference: unknown status "+strconv.Quote(s))
	}
	return p, nil
}

// Preferences 是 appid -> 反馈 的映射，每个 appid 至多一条；缺失即"无反馈"。
type Preferences map[int64]Preference

// Get 读取反馈；nil map 安全。
func (p Preferences) Get(appID int64) (Preference, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[appID]
	return v, ok
}

// OwnershipFetcher 拉取用户拥有的游戏列表（外部服务，例如 Steam）。
// 空列表是合法返回；无法访问数据源时返回 ErrOwnershipUnavailable。
type OwnershipFetcher interface {
	OwnedGames(ctx context.Context, userID string) ([]Interaction, error)
}

// PreferenceStore 是用户反馈的持久化接口。
type PreferenceStore interface {
	Name() string
	List(ctx context.Context, userID string) (Preferences, error)
	Set(ctx context.Context, userID string, appID int64, p Preference) error
	Delete(ctx context.Context, userID string, appID int64) error
}
