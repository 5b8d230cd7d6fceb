package repository

import (
	"context"
	"time"

	"news-detector-app/internal/modules/detection/domain"
)

// AnalysisRepository 解析履歴リポジトリのインターフェース
type AnalysisRepository interface {
	Create(ctx context.Context, record *domain.AnalysisRecord) error
	FindByID(ctx context.Context, id string) (*domain.AnalysisRecord, error)
	FindRecent(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error)
	CountByLabel(ctx context.Context) (map[domain.Label]int, error)
}

// CacheRepository キャッシュリポジトリのインターフェース
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
