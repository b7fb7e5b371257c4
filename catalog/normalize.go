package catalog

// Epsilon 避免评价比例与热度计算中的除零。
const Epsilon = 1e-6

// ReviewRatio 返回好评比例 positive / (total + ε)，范围 [0,1]。
func ReviewRatio(positive, negative int64) float64 {
	positive, negative = clampCount(positive), clampCount(negative)
	total := positive + negative
	return float64(positive) / (float64(total) + Epsilon)
}

// PopularityScore 返回 total / (maxTotal + ε)，范围 [0,1]。
func PopularityScore(total, maxTotal int64) float64 {
	total = clampCount(total)
	if maxTotal < total {
		maxTotal = total
	}
	return float64(total) / (float64(maxTotal) + Epsilon)
}

// Normalize 根据正/负评计数重新计算每个游戏的派生字段。
// 返回新切片，不修改入参；热度以本次快照中的最大评价数为分母。
func Normalize(games []Game) []Game {
	out := make([]Game, len(games))
	var maxTotal int64
	for i := range games {
		g := games[i]
		g.Positive, g.Negative = clampCount(g.Positive), clampCount(g.Negative)
		g.TotalReviews = g.Positive + g.Negative
		if g.TotalReviews > maxTotal {
			maxTotal = g.TotalReviews
		}
		out[i] = g
	}
	for i := range out {
		out[i].ReviewRatio = ReviewRatio(out[i].Positive, out[i].Negative)
		out[i].PopularityScore = PopularityScore(out[i].TotalReviews, maxTotal)
	}
	return out
}

// 上游偶尔给出负数计数，按 0 处理
func clampCount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
