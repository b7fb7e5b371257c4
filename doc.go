// Package gamerec 是一个混合游戏推荐引擎。
//
// 设计要点：
// - Pipeline-first: 一次推荐由 Node 串联（recall.catalog → filter → rank.hybrid → rerank.*）
// - 每请求一个模型: 用户的拥有记录与反馈拟合岭回归，请求结束即丢弃
// - 只读快照: 特征库构建后只读，目录重建在旁路完成后原子替换
// - Labels-first: labels 全链路透传，便于 explain / 观测
package gamerec

import (
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/recommender"
)

// 轻量 facade：便于直接 import "gamerec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type Recommender = recommender.Recommender
type Recommendation = recommender.Recommendation

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// New 是 recommender.New 的别名。
var New = recommender.New
