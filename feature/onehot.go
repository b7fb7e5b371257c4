package feature

import "sort"

// OneHotEncoder One-Hot 编码（独热编码）
// 每个已知类别对应一个维度；Fit 时未出现的类别编码为全零向量，不会报错。
type OneHotEncoder struct {
	categories []string
	index      map[string]int
}

func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit 学习类别集合，类别按字典序分配下标。
func (e *OneHotEncoder) Fit(values []string) {
	e.index = make(map[string]int)
	for _, v := range values {
		e.index[v] = 0
	}
	e.categories = make([]string, 0, len(e.index))
	for v := range e.index {
		e.categories = append(e.categories, v)
	}
	sort.Strings(e.categories)
	for i, v := range e.categories {
		e.index[v] = i
	}
}

// Dim 返回类别数。
func (e *OneHotEncoder) Dim() int { return len(e.categories) }

// Categories 返回按下标排列的类别。
func (e *OneHotEncoder) Categories() []string { return e.categories }

// Transform 编码单个类别值。
func (e *OneHotEncoder) Transform(value string) Vector {
	idx, ok := e.index[value]
	if !ok {
		return Vector{}
	}
	return Vector{Indices: []int{idx}, Values: []float64{1}}
}
