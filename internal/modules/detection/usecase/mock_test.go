package usecase

import (
	"context"
	"errors"

	"news-detector-app/internal/modules/detection/domain"
)

// fakeMatrix 行数だけを持つ特徴量
type fakeMatrix struct {
	rows int
}

func (m fakeMatrix) Rows() int { return m.rows }

// MockVectorizer モックベクトライザー
type MockVectorizer struct {
	TransformFunc func(docs []string) (domain.FeatureMatrix, error)
	calls         int
	lastDocs      []string
}

func (m *MockVectorizer) Transform(docs []string) (domain.FeatureMatrix, error) {
	m.calls++
	m.lastDocs = docs
	if m.TransformFunc != nil {
		return m.TransformFunc(docs)
	}
	return fakeMatrix{rows: len(docs)}, nil
}

// MockClassifier モック分類器
type MockClassifier struct {
	PredictFunc      func(x domain.FeatureMatrix) ([]int, error)
	PredictProbaFunc func(x domain.FeatureMatrix) ([][]float64, error)
	calls            int
}

func (m *MockClassifier) Predict(x domain.FeatureMatrix) ([]int, error) {
	m.calls++
	if m.PredictFunc != nil {
		return m.PredictFunc(x)
	}
	return []int{domain.ClassReal}, nil
}

func (m *MockClassifier) PredictProba(x domain.FeatureMatrix) ([][]float64, error) {
	m.calls++
	if m.PredictProbaFunc != nil {
		return m.PredictProbaFunc(x)
	}
	return [][]float64{{0.3, 0.7}}, nil
}

// MockRecorder モック記録先
type MockRecorder struct {
	RecordFunc func(ctx context.Context, raw string, outcome *domain.AnalysisOutcome) (*domain.AnalysisRecord, error)
	calls      int
}

func (m *MockRecorder) Record(ctx context.Context, raw string, outcome *domain.AnalysisOutcome) (*domain.AnalysisRecord, error) {
	m.calls++
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, raw, outcome)
	}
	return domain.NewAnalysisRecord(raw, outcome), nil
}

// MockFetcher モック記事取得
type MockFetcher struct {
	FetchFunc func(ctx context.Context, url string) (string, error)
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url)
	}
	return "", errors.New("not implemented")
}

// MockAnalysisRepository モック履歴リポジトリ
type MockAnalysisRepository struct {
	CreateFunc       func(ctx context.Context, record *domain.AnalysisRecord) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.AnalysisRecord, error)
	FindRecentFunc   func(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error)
	CountByLabelFunc func(ctx context.Context) (map[domain.Label]int, error)
}

func (m *MockAnalysisRepository) Create(ctx context.Context, record *domain.AnalysisRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

func (m *MockAnalysisRepository) FindByID(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MockAnalysisRepository) FindRecent(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error) {
	if m.FindRecentFunc != nil {
		return m.FindRecentFunc(ctx, limit, offset)
	}
	return []*domain.AnalysisRecord{}, nil
}

func (m *MockAnalysisRepository) CountByLabel(ctx context.Context) (map[domain.Label]int, error) {
	if m.CountByLabelFunc != nil {
		return m.CountByLabelFunc(ctx)
	}
	return map[domain.Label]int{}, nil
}
