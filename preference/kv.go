// Package preference 持久化用户对游戏的显式反馈（喜欢/不喜欢），每个 (user, appid) 至多一条。
package preference

import (
	"context"
	"strconv"

	"github.com/rushteam/gamerec/core"
)

// KVStore 把反馈存为 Hash：key = {prefix}:{userID}，field = appid，value = liked|disliked。
// 底层可以是 store.MemoryStore 或 store.RedisStore。
type KVStore struct {
	kv     core.KeyValueStore
	prefix string
}

func NewKVStore(kv core.KeyValueStore, prefix string) *KVStore {
	if prefix == "" {
		prefix = "pref"
	}
	return &KVStore{kv: kv, prefix: prefix}
}

func (s *KVStore) Name() string { return "kv:" + s.kv.Name() }

func (s *KVStore) key(userID string) string { return s.prefix + ":" + userID }

// List 读取用户全部反馈；无法识别的字段会被跳过。
func (s *KVStore) List(ctx context.Context, userID string) (core.Preferences, error) {
	raw, err := s.kv.HGetAll(ctx, s.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.Preferences{}, nil
		}
		return nil, core.ErrPreferenceUnavailable.Wrap(err)
	}
	prefs := make(core.Preferences, len(raw))
	for field, v := range raw {
		appID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		p := core.Preference(v)
		if !p.Valid() {
			continue
		}
		prefs[appID] = p
	}
	return prefs, nil
}

// Set 写入反馈，已存在时覆盖。
func (s *KVStore) Set(ctx context.Context, userID string, appID int64, p core.Preference) error {
	if !p.Valid() {
		_, err := core.ParsePreference(string(p))
		return err
	}
	if err := s.kv.HSet(ctx, s.key(userID), strconv.FormatInt(appID, 10), []byte(p)); err != nil {
		return core.ErrPreferenceUnavailable.Wrap(err)
	}
	return nil
}

// Delete 删除反馈，不存在时不报错。
func (s *KVStore) Delete(ctx context.Context, userID string, appID int64) error {
	if err := s.kv.HDel(ctx, s.key(userID), strconv.FormatInt(appID, 10)); err != nil {
		return core.ErrPreferenceUnavailable.Wrap(err)
	}
	return nil
}

var _ core.PreferenceStore = (*KVStore)(nil)
