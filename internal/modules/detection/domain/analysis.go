package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Label 判定ラベル
type Label string

const (
	LabelFake Label = "FAKE"
	LabelReal Label = "REAL"
)

// 学習済みモデルのクラスインデックス
const (
	ClassFake = 0
	ClassReal = 1
)

// probabilityTolerance 確率の合計に許容する誤差
const probabilityTolerance = 1e-6

// LabelFromClassIndex 予測クラスインデックスからラベルを決定
// 確率の大小ではなく、分類器の予測クラスのみで決める。
func LabelFromClassIndex(index int) (Label, error) {
	switch index {
	case ClassFake:
		return LabelFake, nil
	case ClassReal:
		return LabelReal, nil
	default:
		return "", fmt.Errorf("%w: unexpected class index %d", ErrInference, index)
	}
}

// IsFake フェイクニュース判定かどうか
func (l Label) IsFake() bool {
	return l == LabelFake
}

// TextStats 入力テキストの統計
type TextStats struct {
	WordCount int
	CharCount int
}

// NewTextStats 正規化前のテキストから統計を算出
func NewTextStats(raw string) TextStats {
	return TextStats{
		WordCount: len(strings.Fields(raw)),
		CharCount: utf8.RuneCountInString(raw),
	}
}

// PredictionResult 分類器の出力
type PredictionResult struct {
	Label           Label
	FakeProbability float64
	RealProbability float64
}

// NewPredictionResult 分類器の出力を検証してPredictionResultを作成
func NewPredictionResult(classIndex int, probs []float64) (PredictionResult, error) {
	label, err := LabelFromClassIndex(classIndex)
	if err != nil {
		return PredictionResult{}, err
	}

	if len(probs) != 2 {
		return PredictionResult{}, fmt.Errorf("%w: expected 2 class probabilities, got %d", ErrInference, len(probs))
	}

	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return PredictionResult{}, fmt.Errorf("%w: probability[%d] out of range: %v", ErrInference, i, p)
		}
	}

	if sum := probs[0] + probs[1]; math.Abs(sum-1) >= probabilityTolerance {
		return PredictionResult{}, fmt.Errorf("%w: probabilities sum to %v", ErrInference, sum)
	}

	return PredictionResult{
		Label:           label,
		FakeProbability: probs[ClassFake],
		RealProbability: probs[ClassReal],
	}, nil
}

// Confidence 確率の大きい方
func (p PredictionResult) Confidence() float64 {
	return math.Max(p.FakeProbability, p.RealProbability)
}

// AnalysisOutcome 記事の解析結果
type AnalysisOutcome struct {
	Label           Label
	FakeProbability float64
	RealProbability float64
	Confidence      float64
	WordCount       int
	CharCount       int
	CleanedText     string
	Model           string
	AnalyzedAt      time.Time
}

// NewAnalysisOutcome 新しいAnalysisOutcomeを作成
func NewAnalysisOutcome(prediction PredictionResult, stats TextStats, cleanedText, model string) *AnalysisOutcome {
	return &AnalysisOutcome{
		Label:           prediction.Label,
		FakeProbability: prediction.FakeProbability,
		RealProbability: prediction.RealProbability,
		Confidence:      prediction.Confidence(),
		WordCount:       stats.WordCount,
		CharCount:       stats.CharCount,
		CleanedText:     cleanedText,
		Model:           model,
		AnalyzedAt:      time.Now(),
	}
}

// ConfidencePercent 信頼度をパーセントで返す
func (o *AnalysisOutcome) ConfidencePercent() float64 {
	return o.Confidence * 100
}

// Stats テキスト統計を返す
func (o *AnalysisOutcome) Stats() TextStats {
	return TextStats{WordCount: o.WordCount, CharCount: o.CharCount}
}
