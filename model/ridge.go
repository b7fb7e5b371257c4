package model

import (
	"fmt"
	"math"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
)

// DefaultAlpha 是 L2 正则强度的默认值。
const DefaultAlpha = 1.0

// Ridge 是带截距的 L2 正则线性回归。
//
// 预测：y = Intercept + x · Coef
//
// 训练集规模是用户拥有的游戏数（通常远小于特征维度），因此在对偶空间求解：
// 先对特征与目标中心化，解 (K + αI) a = y - ȳ，其中 K 为中心化后的 Gram 矩阵，
// 再得到 Coef = Σ a_i (x_i - x̄)。与在原空间求解等价，代价只与样本数有关。
type Ridge struct {
	Alpha     float64
	Intercept float64
	Coef      []float64
}

func (m *Ridge) Name() string { return "ridge" }

func (m *Ridge) Predict(x feature.Vector) float64 {
	return m.Intercept + x.DotDense(m.Coef)
}

// FitRidge 在 (rows, y) 上拟合模型，dim 为特征维度。
// 单样本也能拟合（此时预测恒等于该样本的目标值）。
func FitRidge(rows []feature.Vector, y []float64, dim int, alpha float64) (*Ridge, error) {
	n := len(rows)
	switch {
	case n == 0:
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "ridge: empty training set")
	case len(y) != n:
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("ridge: %d rows but %d targets", n, len(y)))
	case alpha <= 0 || math.IsNaN(alpha):
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("ridge: alpha must be positive, got %v", alpha))
	}

	mean := make([]float64, dim)
	var yMean float64
	for i, r := range rows {
		r.AddTo(mean, 1/float64(n))
		yMean += y[i] / float64(n)
	}
	var meanSq float64
	for _, v := range mean {
		meanSq += v * v
	}
	proj := make([]float64, n)
	for i, r := range rows {
		proj[i] = r.DotDense(mean)
	}

	// (K + αI)，K_ij = (x_i - x̄)·(x_j - x̄)
	gram := make([][]float64, n)
	for i := range gram {
		gram[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			k := rows[i].Dot(rows[j]) - proj[i] - proj[j] + meanSq
			gram[i][j], gram[j][i] = k, k
		}
		gram[i][i] += alpha
	}

	target := make([]float64, n)
	for i := range y {
		target[i] = y[i] - yMean
	}
	dual, err := solveCholesky(gram, target)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInternalError, "ridge: solve").Wrap(err)
	}

	coef := make([]float64, dim)
	var dualSum float64
	for i, r := range rows {
		r.AddTo(coef, dual[i])
		dualSum += dual[i]
	}
	for j := range coef {
		coef[j] -= dualSum * mean[j]
	}

	var meanDot float64
	for j := range coef {
		meanDot += mean[j] * coef[j]
	}
	return &Ridge{Alpha: alpha, Intercept: yMean - meanDot, Coef: coef}, nil
}

// solveCholesky 解对称正定方程组 A x = b（A = L Lᵀ）。
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveCholesky(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("matrix is not positive definite")
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// L z = b
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L[i][k] * z[k]
		}
		z[i] = sum / L[i][i]
	}
	// Lᵀ x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= L[k][i] * x[k]
		}
		x[i] = sum / L[i][i]
	}
	return x, nil
}
