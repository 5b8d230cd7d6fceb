package model

import (
	"math"

	"news-detector-app/internal/modules/detection/domain"
)

// MultinomialNB 多項ナイーブベイズ
type MultinomialNB struct {
	classes        []int
	classLogPrior  []float64
	featureLogProb [][]float64
}

var _ domain.Classifier = (*MultinomialNB)(nil)

// NewMultinomialNB アーティファクトから分類器を作成
func NewMultinomialNB(a *ClassifierArtifact) *MultinomialNB {
	return &MultinomialNB{
		classes:        a.Classes,
		classLogPrior:  a.ClassLogPrior,
		featureLogProb: a.FeatureLogProb,
	}
}

// Features 特徴量数
func (c *MultinomialNB) Features() int {
	return len(c.featureLogProb[0])
}

// jointLogLikelihood 各行・各クラスの同時対数尤度
func (c *MultinomialNB) jointLogLikelihood(x domain.FeatureMatrix) ([][]float64, error) {
	m, err := asSparse(x, c.Features())
	if err != nil {
		return nil, err
	}

	jll := make([][]float64, m.Rows())
	for i := range jll {
		row := m.Row(i)
		scores := make([]float64, len(c.classes))
		for k := range c.classes {
			scores[k] = c.classLogPrior[k] + row.Dot(c.featureLogProb[k])
		}
		jll[i] = scores
	}
	return jll, nil
}

// Predict 対数尤度が最大のクラス（同値ならclasses[0]）
func (c *MultinomialNB) Predict(x domain.FeatureMatrix) ([]int, error) {
	jll, err := c.jointLogLikelihood(x)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(jll))
	for i, scores := range jll {
		best := 0
		for k := 1; k < len(scores); k++ {
			if scores[k] > scores[best] {
				best = k
			}
		}
		labels[i] = c.classes[best]
	}
	return labels, nil
}

// PredictProba 対数尤度をlog-sum-expで正規化
func (c *MultinomialNB) PredictProba(x domain.FeatureMatrix) ([][]float64, error) {
	jll, err := c.jointLogLikelihood(x)
	if err != nil {
		return nil, err
	}

	probs := make([][]float64, len(jll))
	for i, scores := range jll {
		norm := logSumExp(scores)
		p := make([]float64, len(scores))
		for k, s := range scores {
			p[k] = math.Exp(s - norm)
		}
		probs[i] = p
	}
	return probs, nil
}

func logSumExp(xs []float64) float64 {
	peak := math.Inf(-1)
	for _, x := range xs {
		if x > peak {
			peak = x
		}
	}
	if math.IsInf(peak, -1) {
		return peak
	}

	var sum float64
	for _, x := range xs {
		sum += math.Exp(x - peak)
	}
	return peak + math.Log(sum)
}
