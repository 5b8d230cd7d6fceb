package handler

import (
	"fmt"
	"html/template"

	"news-detector-app/internal/modules/detection/domain"
)

// resultView 判定結果の表示用データ
type resultView struct {
	IsFake      bool
	FakePercent string
	RealPercent string
	FakePie     string
	RealPie     string
	Confidence  string
	WordCount   int
	CharCount   int

	FakeBar template.CSS
	RealBar template.CSS
	Pie     template.CSS
	Meter   template.CSS
	WordBar template.CSS
	CharBar template.CSS
}

func newResultView(o *domain.AnalysisOutcome) *resultView {
	fakePct := o.FakeProbability * 100
	realPct := o.RealProbability * 100

	// 統計は多い方を100%とする
	scale := o.CharCount
	if o.WordCount > scale {
		scale = o.WordCount
	}

	return &resultView{
		IsFake:      o.Label.IsFake(),
		FakePercent: fmt.Sprintf("%.2f%%", fakePct),
		RealPercent: fmt.Sprintf("%.2f%%", realPct),
		FakePie:     fmt.Sprintf("%.1f%%", fakePct),
		RealPie:     fmt.Sprintf("%.1f%%", realPct),
		Confidence:  formatPercent(o.Confidence),
		WordCount:   o.WordCount,
		CharCount:   o.CharCount,
		FakeBar:     widthCSS(fakePct),
		RealBar:     widthCSS(realPct),
		Pie:         template.CSS(fmt.Sprintf("background: conic-gradient(#ef4444 0 %.2f%%, #22c55e %.2f%% 100%%)", fakePct, fakePct)),
		Meter:       widthCSS(o.ConfidencePercent()),
		WordBar:     widthCSS(ratio(o.WordCount, scale)),
		CharBar:     widthCSS(ratio(o.CharCount, scale)),
	}
}

// formatPercent 0〜1の値を "NN.NN%" にする
func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func widthCSS(percent float64) template.CSS {
	return template.CSS(fmt.Sprintf("width: %.2f%%", percent))
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
