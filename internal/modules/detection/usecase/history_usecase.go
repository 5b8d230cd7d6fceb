package usecase

import (
	"context"
	"fmt"

	"news-detector-app/internal/modules/detection/domain"
	"news-detector-app/internal/modules/detection/domain/repository"
)

// HistoryUseCase 解析履歴のユースケース
type HistoryUseCase struct {
	repo repository.AnalysisRepository
}

// NewHistoryUseCase 新しいHistoryUseCaseを作成
func NewHistoryUseCase(repo repository.AnalysisRepository) *HistoryUseCase {
	return &HistoryUseCase{
		repo: repo,
	}
}

// Record 解析結果を履歴に保存
func (uc *HistoryUseCase) Record(ctx context.Context, raw string, outcome *domain.AnalysisOutcome) (*domain.AnalysisRecord, error) {
	if outcome == nil {
		return nil, fmt.Errorf("outcome is nil")
	}

	record := domain.NewAnalysisRecord(raw, outcome)
	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return record, nil
}

// Get IDで履歴を取得
func (uc *HistoryUseCase) Get(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	if id == "" {
		return nil, domain.ErrRecordNotFound
	}
	return uc.repo.FindByID(ctx, id)
}

// ListRecent 新しい順に履歴を取得
func (uc *HistoryUseCase) ListRecent(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error) {
	limit, offset = domain.ClampPage(limit, offset)

	records, err := uc.repo.FindRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

// Summary ラベル別件数（FAKE, REALの順、0件も含む）
func (uc *HistoryUseCase) Summary(ctx context.Context) ([]domain.LabelSummary, error) {
	counts, err := uc.repo.CountByLabel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	return []domain.LabelSummary{
		{Label: domain.LabelFake, Count: counts[domain.LabelFake]},
		{Label: domain.LabelReal, Count: counts[domain.LabelReal]},
	}, nil
}
