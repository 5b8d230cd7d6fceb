package model

import (
	"math"

	"news-detector-app/internal/modules/detection/domain"
)

// LogisticRegression 二値ロジスティック回帰
type LogisticRegression struct {
	classes   []int
	coef      []float64
	intercept float64
}

var _ domain.Classifier = (*LogisticRegression)(nil)

// NewLogisticRegression アーティファクトから分類器を作成
func NewLogisticRegression(a *ClassifierArtifact) *LogisticRegression {
	return &LogisticRegression{
		classes:   a.Classes,
		coef:      a.Coef,
		intercept: a.Intercept,
	}
}

// Features 特徴量数
func (c *LogisticRegression) Features() int {
	return len(c.coef)
}

// DecisionFunction 各行の決定関数値
func (c *LogisticRegression) DecisionFunction(x domain.FeatureMatrix) ([]float64, error) {
	m, err := asSparse(x, len(c.coef))
	if err != nil {
		return nil, err
	}

	scores := make([]float64, m.Rows())
	for i := range scores {
		scores[i] = m.Row(i).Dot(c.coef) + c.intercept
	}
	return scores, nil
}

// Predict 決定関数値が正ならclasses[1]
func (c *LogisticRegression) Predict(x domain.FeatureMatrix) ([]int, error) {
	scores, err := c.DecisionFunction(x)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(scores))
	for i, s := range scores {
		if s > 0 {
			labels[i] = c.classes[1]
		} else {
			labels[i] = c.classes[0]
		}
	}
	return labels, nil
}

// PredictProba 各行の[P(class0), P(class1)]
func (c *LogisticRegression) PredictProba(x domain.FeatureMatrix) ([][]float64, error) {
	scores, err := c.DecisionFunction(x)
	if err != nil {
		return nil, err
	}

	probs := make([][]float64, len(scores))
	for i, s := range scores {
		p := sigmoid(s)
		probs[i] = []float64{1 - p, p}
	}
	return probs, nil
}

// sigmoid 大きな負値でもオーバーフローしない
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
