package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	_ "github.com/go-sql-driver/mysql"

	"news-detector-app/internal/config"
	"news-detector-app/internal/modules/detection/domain"
	"news-detector-app/internal/modules/detection/domain/repository"
)

// Analysis BUNモデル
type Analysis struct {
	bun.BaseModel `bun:"table:analyses"`

	ID              string    `bun:"id,pk,type:varchar(36)"`
	TextHash        string    `bun:"text_hash,notnull,type:char(64)"`
	Excerpt         string    `bun:"excerpt,notnull,type:text"`
	Label           string    `bun:"label,notnull,type:varchar(8)"`
	FakeProbability float64   `bun:"fake_probability,notnull"`
	RealProbability float64   `bun:"real_probability,notnull"`
	Confidence      float64   `bun:"confidence,notnull"`
	WordCount       int       `bun:"word_count,notnull"`
	CharCount       int       `bun:"char_count,notnull"`
	Model           string    `bun:"model,notnull,type:varchar(100),default:''"`
	CreatedAt       time.Time `bun:"created_at,notnull,type:datetime(6),default:current_timestamp(6)"`
}

// labelCount ラベル別集計の行
type labelCount struct {
	Label string `bun:"label"`
	Count int    `bun:"count"`
}

// BunAnalysisRepository BUN実装
type BunAnalysisRepository struct {
	db *bun.DB
}

var _ repository.AnalysisRepository = (*BunAnalysisRepository)(nil)

// NewBunAnalysisRepository 新しいBunAnalysisRepositoryを作成
func NewBunAnalysisRepository(cfg *config.MySQLConfig) (*BunAnalysisRepository, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := bun.NewDB(sqldb, mysqldialect.New())

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &BunAnalysisRepository{db: db}, nil
}

// NewBunAnalysisRepositoryWithDB DBインスタンスから作成（テスト用）
func NewBunAnalysisRepositoryWithDB(db *bun.DB) *BunAnalysisRepository {
	return &BunAnalysisRepository{db: db}
}

// EnsureSchema テーブルとインデックスを作成
func (r *BunAnalysisRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*Analysis)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	// MySQLは CREATE INDEX IF NOT EXISTS に対応していないため重複エラーは無視する
	_, err := r.db.NewCreateIndex().
		Model((*Analysis)(nil)).
		Index("idx_analyses_created_at").
		Column("created_at").
		Exec(ctx)
	if err != nil && !isDuplicateKeyName(err) {
		return fmt.Errorf("failed to create analyses index: %w", err)
	}
	return nil
}

// Create 解析履歴を保存
func (r *BunAnalysisRepository) Create(ctx context.Context, record *domain.AnalysisRecord) error {
	model := toModel(record)
	if _, err := r.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// FindByID IDで解析履歴を検索
func (r *BunAnalysisRepository) FindByID(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	model := &Analysis{}
	err := r.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}

	return toEntity(model), nil
}

// FindRecent 新しい順に解析履歴を取得
func (r *BunAnalysisRepository) FindRecent(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error) {
	var models []Analysis
	query := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC", "id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to find analyses: %w", err)
	}

	records := make([]*domain.AnalysisRecord, len(models))
	for i := range models {
		records[i] = toEntity(&models[i])
	}
	return records, nil
}

// CountByLabel ラベル別の件数
func (r *BunAnalysisRepository) CountByLabel(ctx context.Context) (map[domain.Label]int, error) {
	var rows []labelCount
	err := r.db.NewSelect().
		Model((*Analysis)(nil)).
		Column("label").
		ColumnExpr("COUNT(*) AS count").
		Group("label").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	counts := make(map[domain.Label]int, len(rows))
	for _, row := range rows {
		counts[domain.Label(row.Label)] = row.Count
	}
	return counts, nil
}

// Ping 接続確認
func (r *BunAnalysisRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close DB接続を閉じる
func (r *BunAnalysisRepository) Close() error {
	return r.db.Close()
}

func toModel(record *domain.AnalysisRecord) *Analysis {
	return &Analysis{
		ID:              record.ID,
		TextHash:        record.TextHash,
		Excerpt:         record.Excerpt,
		Label:           string(record.Label),
		FakeProbability: record.FakeProbability,
		RealProbability: record.RealProbability,
		Confidence:      record.Confidence,
		WordCount:       record.WordCount,
		CharCount:       record.CharCount,
		Model:           record.Model,
		CreatedAt:       record.CreatedAt.UTC(),
	}
}

func toEntity(model *Analysis) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:              model.ID,
		TextHash:        model.TextHash,
		Excerpt:         model.Excerpt,
		Label:           domain.Label(model.Label),
		FakeProbability: model.FakeProbability,
		RealProbability: model.RealProbability,
		Confidence:      model.Confidence,
		WordCount:       model.WordCount,
		CharCount:       model.CharCount,
		Model:           model.Model,
		CreatedAt:       model.CreatedAt,
	}
}
