package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉运营下架/屏蔽的游戏。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单 appid
	ItemIDs []int64

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	set map[int64]struct{}
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单 appid 列表
	GetBlacklist(ctx context.Context, key string) ([]int64, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []int64, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Prepare 合并内存列表与 Store 中的黑名单。key 不存在视为空黑名单。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	set := make(map[int64]struct{}, len(f.ItemIDs))
	for _, id := range f.ItemIDs {
		set[id] = struct{}{}
	}
	if f.Store != nil && f.Key != "" {
		ids, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil && !core.IsStoreNotFound(err) {
			return nil, err
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return &BlacklistFilter{ItemIDs: f.ItemIDs, Store: f.Store, Key: f.Key, set: set}, nil
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.set != nil {
		_, ok := f.set[item.ID]
		return ok, nil
	}
	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
