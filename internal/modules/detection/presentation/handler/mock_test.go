package handler

import (
	"context"
	"time"

	"news-detector-app/internal/modules/detection/domain"
)

// MockDetectionUseCase モック判定ユースケース
type MockDetectionUseCase struct {
	AnalyzeFunc    func(ctx context.Context, raw string) (*domain.AnalysisOutcome, error)
	AnalyzeURLFunc func(ctx context.Context, url string) (*domain.AnalysisOutcome, error)
	Variant        string
	analyzeCalls   int
}

func (m *MockDetectionUseCase) Analyze(ctx context.Context, raw string) (*domain.AnalysisOutcome, error) {
	m.analyzeCalls++
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, raw)
	}
	return testOutcome(domain.LabelFake, 0.8), nil
}

func (m *MockDetectionUseCase) AnalyzeURL(ctx context.Context, url string) (*domain.AnalysisOutcome, error) {
	if m.AnalyzeURLFunc != nil {
		return m.AnalyzeURLFunc(ctx, url)
	}
	return testOutcome(domain.LabelReal, 0.3), nil
}

func (m *MockDetectionUseCase) Normalize(raw string) string {
	return domain.Normalize(raw)
}

func (m *MockDetectionUseCase) ModelName() string {
	return "mock@1"
}

func (m *MockDetectionUseCase) NormalizerVariant() string {
	if m.Variant != "" {
		return m.Variant
	}
	return domain.VariantLegacy
}

// MockHistoryUseCase モック履歴ユースケース
type MockHistoryUseCase struct {
	GetFunc        func(ctx context.Context, id string) (*domain.AnalysisRecord, error)
	ListRecentFunc func(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error)
	SummaryFunc    func(ctx context.Context) ([]domain.LabelSummary, error)
}

func (m *MockHistoryUseCase) Get(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MockHistoryUseCase) ListRecent(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit, offset)
	}
	return []*domain.AnalysisRecord{}, nil
}

func (m *MockHistoryUseCase) Summary(ctx context.Context) ([]domain.LabelSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return []domain.LabelSummary{
		{Label: domain.LabelFake, Count: 0},
		{Label: domain.LabelReal, Count: 0},
	}, nil
}

// MockOutcomeCache モック結果キャッシュ
type MockOutcomeCache struct {
	entries map[string]*domain.AnalysisOutcome
	stored  int
}

func newMockOutcomeCache() *MockOutcomeCache {
	return &MockOutcomeCache{entries: make(map[string]*domain.AnalysisOutcome)}
}

func (m *MockOutcomeCache) Lookup(ctx context.Context, model, variant, raw string) (*domain.AnalysisOutcome, bool) {
	o, ok := m.entries[model+"|"+variant+"|"+raw]
	return o, ok
}

func (m *MockOutcomeCache) Store(ctx context.Context, model, variant, raw string, outcome *domain.AnalysisOutcome) error {
	m.stored++
	m.entries[model+"|"+variant+"|"+raw] = outcome
	return nil
}

// testOutcome fakeProbに対応する解析結果
func testOutcome(label domain.Label, fakeProb float64) *domain.AnalysisOutcome {
	pred := domain.PredictionResult{
		Label:           label,
		FakeProbability: fakeProb,
		RealProbability: 1 - fakeProb,
	}
	o := domain.NewAnalysisOutcome(pred, domain.TextStats{WordCount: 4, CharCount: 20}, "cleaned text", "mock@1")
	o.AnalyzedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return o
}
