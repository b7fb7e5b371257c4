package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
)

func vec(idx []int, vals []float64) feature.Vector {
	return feature.Vector{Indices: idx, Values: vals}
}

func TestFitRidgeSingleSample(t *testing.T) {
	m, err := FitRidge([]feature.Vector{vec([]int{0, 2}, []float64{0.6, 0.8})}, []float64{0.5}, 3, DefaultAlpha)
	require.NoError(t, err)

	assert.Equal(t, "ridge", m.Name())
	assert.InDelta(t, 0.5, m.Predict(vec([]int{0, 2}, []float64{0.6, 0.8})), 1e-12)
	assert.InDelta(t, 0.5, m.Predict(vec([]int{1}, []float64{1})), 1e-12)
}

func TestFitRidgeTwoSamples(t *testing.T) {
	// 一维特征 x ∈ {0, 1}，y ∈ {0, 1}：
	// 中心化后 x = ±0.5，y = ±0.5，w = Σxy / (Σx² + α) = 0.5 / 1.5
	rows := []feature.Vector{{}, vec([]int{0}, []float64{1})}
	m, err := FitRidge(rows, []float64{0, 1}, 1, 1.0)
	require.NoError(t, err)

	w := 0.5 / 1.5
	assert.InDelta(t, w, m.Coef[0], 1e-12)
	assert.InDelta(t, 0.5-0.5*w, m.Intercept, 1e-12)
	assert.InDelta(t, 0.5+0.5*w, m.Predict(rows[1]), 1e-12)
}

func TestFitRidgeMatchesPrimal(t *testing.T) {
	// 两维特征、三个样本，对照原空间闭式解 w = (XcᵀXc + αI)⁻¹ Xcᵀ yc
	rows := []feature.Vector{
		vec([]int{0}, []float64{1}),
		vec([]int{1}, []float64{1}),
		vec([]int{0, 1}, []float64{1, 1}),
	}
	y := []float64{1, 0, 2}
	m, err := FitRidge(rows, y, 2, 0.5)
	require.NoError(t, err)

	// x̄ = (2/3, 2/3), ȳ = 1
	// Xc = [[1/3,-2/3],[-2/3,1/3],[1/3,1/3]], yc = [0,-1,1]
	// XcᵀXc = [[2/3,-1/3],[-1/3,2/3]], Xcᵀyc = [1, 0]
	a11, a12 := 2.0/3+0.5, -1.0/3
	det := a11*a11 - a12*a12
	b1, b2 := 1.0, 0.0
	w1 := (a11*b1 - a12*b2) / det
	w2 := (a11*b2 - a12*b1) / det

	assert.InDelta(t, w1, m.Coef[0], 1e-9)
	assert.InDelta(t, w2, m.Coef[1], 1e-9)
	assert.InDelta(t, 1-(2.0/3)*(w1+w2), m.Intercept, 1e-9)
}

func TestFitRidgeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		rows  []feature.Vector
		y     []float64
		alpha float64
	}{
		{name: "empty", alpha: 1},
		{name: "length mismatch", rows: []feature.Vector{{}}, y: []float64{1, 2}, alpha: 1},
		{name: "zero alpha", rows: []feature.Vector{{}}, y: []float64{1}, alpha: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitRidge(tt.rows, tt.y, 1, tt.alpha)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestSolveCholesky(t *testing.T) {
	x, err := solveCholesky([][]float64{{4, 2}, {2, 3}}, []float64{2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, x[0], 1e-12)
	assert.InDelta(t, 0, x[1], 1e-12)

	_, err = solveCholesky([][]float64{{0}}, []float64{1})
	assert.Error(t, err)
}
