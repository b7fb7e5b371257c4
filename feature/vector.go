package feature

import "math"

// Vector 是稀疏特征向量：Indices 严格递增，Values 与之一一对应。
type Vector struct {
	Indices []int
	Values  []float64
}

// NNZ 返回非零元素个数。
func (v Vector) NNZ() int { return len(v.Indices) }

// Dot 计算两个稀疏向量的内积。
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// DotDense 计算与稠密向量的内积，越界的下标忽略。
func (v Vector) DotDense(w []float64) float64 {
	var sum float64
	for k, idx := range v.Indices {
		if idx < len(w) {
			sum += v.Values[k] * w[idx]
		}
	}
	return sum
}

// AddTo 将 scale * v 累加到稠密向量 dst。
func (v Vector) AddTo(dst []float64, scale float64) {
	for k, idx := range v.Indices {
		dst[idx] += scale * v.Values[k]
	}
}

// Norm 返回 L2 范数。
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Hstack 按顺序横向拼接多个向量，第 k 段的下标整体偏移 offsets[k]。
func Hstack(parts []Vector, offsets []int) Vector {
	n := 0
	for _, p := range parts {
		n += p.NNZ()
	}
	out := Vector{Indices: make([]int, 0, n), Values: make([]float64, 0, n)}
	for k, p := range parts {
		for i, idx := range p.Indices {
			out.Indices = append(out.Indices, idx+offsets[k])
			out.Values = append(out.Values, p.Values[i])
		}
	}
	return out
}
