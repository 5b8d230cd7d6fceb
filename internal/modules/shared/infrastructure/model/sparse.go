package model

import (
	"fmt"

	"news-detector-app/internal/modules/detection/domain"
)

// SparseRow 疎ベクトルの1行（Indicesは昇順）
type SparseRow struct {
	Indices []int
	Values  []float64
}

// Dot 重みベクトルとの内積
func (r SparseRow) Dot(weights []float64) float64 {
	var sum float64
	for i, idx := range r.Indices {
		sum += r.Values[i] * weights[idx]
	}
	return sum
}

// SparseMatrix TF-IDFベクトライザーの出力
type SparseMatrix struct {
	cols int
	rows []SparseRow
}

var _ domain.FeatureMatrix = (*SparseMatrix)(nil)

// NewSparseMatrix 新しいSparseMatrixを作成
func NewSparseMatrix(cols int, rows ...SparseRow) *SparseMatrix {
	return &SparseMatrix{cols: cols, rows: rows}
}

// Rows 行数（nilは0行）
func (m *SparseMatrix) Rows() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Cols 列数（特徴量数）
func (m *SparseMatrix) Cols() int {
	if m == nil {
		return 0
	}
	return m.cols
}

// Row i行目
func (m *SparseMatrix) Row(i int) SparseRow {
	return m.rows[i]
}

// asSparse 分類器が受け付ける形に変換
func asSparse(x domain.FeatureMatrix, features int) (*SparseMatrix, error) {
	m, ok := x.(*SparseMatrix)
	if !ok || m == nil {
		return nil, fmt.Errorf("unsupported feature matrix type %T", x)
	}
	if m.cols != features {
		return nil, fmt.Errorf("feature dimension mismatch: got %d, want %d", m.cols, features)
	}
	for i, row := range m.rows {
		if len(row.Indices) != len(row.Values) {
			return nil, fmt.Errorf("row %d: %d indices for %d values", i, len(row.Indices), len(row.Values))
		}
		for _, idx := range row.Indices {
			if idx < 0 || idx >= features {
				return nil, fmt.Errorf("row %d: feature index %d out of range", i, idx)
			}
		}
	}
	return m, nil
}
