package model

import "github.com/rushteam/gamerec/feature"

// Regressor 是内容打分模型的最小抽象：输入一行稀疏特征，输出预测的偏好值。
// 模型只在一次推荐请求内存在，不持久化、不跨请求复用。
type Regressor interface {
	Name() string
	Predict(x feature.Vector) float64
}
