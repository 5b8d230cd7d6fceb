package handler

import (
	"context"

	"news-detector-app/internal/modules/detection/domain"
)

// DetectionUseCaseInterface 判定ユースケースのインターフェース
type DetectionUseCaseInterface interface {
	Analyze(ctx context.Context, raw string) (*domain.AnalysisOutcome, error)
	AnalyzeURL(ctx context.Context, url string) (*domain.AnalysisOutcome, error)
	Normalize(raw string) string
	ModelName() string
	NormalizerVariant() string
}

// HistoryUseCaseInterface 解析履歴ユースケースのインターフェース
type HistoryUseCaseInterface interface {
	Get(ctx context.Context, id string) (*domain.AnalysisRecord, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error)
	Summary(ctx context.Context) ([]domain.LabelSummary, error)
}

// OutcomeCacheInterface 解析結果キャッシュのインターフェース
type OutcomeCacheInterface interface {
	Lookup(ctx context.Context, model, variant, raw string) (*domain.AnalysisOutcome, bool)
	Store(ctx context.Context, model, variant, raw string, outcome *domain.AnalysisOutcome) error
}

// 空入力時に表示する警告
const emptyInputWarning = "⚠️ Please enter some text."
