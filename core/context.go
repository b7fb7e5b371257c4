package core

import "github.com/rushteam/gamerec/pkg/utils"

// RecommendContext 承载一次推荐请求的全部用户信号，贯穿整个 Pipeline 透传。
// 请求结束即丢弃，不跨请求保留任何状态。
type RecommendContext struct {
	UserID string

	// Owned 是用户拥有的游戏及时长
	Owned []Interaction

	// Preferences 是用户的显式喜欢/不喜欢
	Preferences Preferences

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级参数（例如 top_n、debug）
	Params map[string]any
}

// Interacted 返回 拥有 ∪ 有任意反馈 的 appid 集合，这些物品永远不会作为候选。
func (rctx *RecommendContext) Interacted() map[int64]struct{} {
	out := make(map[int64]struct{}, len(rctx.Owned)+len(rctx.Preferences))
	for _, in := range rctx.Owned {
		out[in.AppID] = struct{}{}
	}
	for appID := range rctx.Preferences {
		out[appID] = struct{}{}
	}
	return out
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
