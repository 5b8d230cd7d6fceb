package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"news-detector-app/internal/modules/detection/domain"
	"news-detector-app/internal/modules/detection/domain/repository"
)

const outcomeKeyPrefix = "news:analyze:"

// cachedOutcome キャッシュに保存する解析結果
type cachedOutcome struct {
	Label           string    `msgpack:"label"`
	FakeProbability float64   `msgpack:"fake_probability"`
	RealProbability float64   `msgpack:"real_probability"`
	Confidence      float64   `msgpack:"confidence"`
	WordCount       int       `msgpack:"word_count"`
	CharCount       int       `msgpack:"char_count"`
	CleanedText     string    `msgpack:"cleaned_text"`
	Model           string    `msgpack:"model"`
	AnalyzedAt      time.Time `msgpack:"analyzed_at"`
}

// OutcomeCache 入力テキストごとの解析結果キャッシュ
// 同じモデル・同じ正規化順序・同じ入力の結果は決定的。
type OutcomeCache struct {
	repo   repository.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// NewOutcomeCache 新しいOutcomeCacheを作成
func NewOutcomeCache(repo repository.CacheRepository, ttl time.Duration, logger *slog.Logger) *OutcomeCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutcomeCache{
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

// Key キャッシュキーを生成
// news:analyze:<model>:<variant>:<sha256>
func Key(model, variant, raw string) string {
	return outcomeKeyPrefix + model + ":" + variant + ":" + domain.HashText(raw)
}

// Lookup キャッシュ済みの解析結果を取得
// 取得やデコードに失敗した場合はミスとして扱う。
func (c *OutcomeCache) Lookup(ctx context.Context, model, variant, raw string) (*domain.AnalysisOutcome, bool) {
	key := Key(model, variant, raw)

	data, err := c.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("cache lookup failed", "key", key, "error", err)
		}
		return nil, false
	}

	outcome, err := decodeOutcome(data)
	if err != nil {
		c.logger.Warn("cache entry is corrupt", "key", key, "error", err)
		_ = c.repo.Delete(ctx, key)
		return nil, false
	}
	return outcome, true
}

// Store 解析結果を保存
func (c *OutcomeCache) Store(ctx context.Context, model, variant, raw string, outcome *domain.AnalysisOutcome) error {
	data, err := encodeOutcome(outcome)
	if err != nil {
		return err
	}

	if err := c.repo.Set(ctx, Key(model, variant, raw), data, c.ttl); err != nil {
		return fmt.Errorf("failed to store outcome: %w", err)
	}
	return nil
}

func encodeOutcome(o *domain.AnalysisOutcome) ([]byte, error) {
	data, err := msgpack.Marshal(&cachedOutcome{
		Label:           string(o.Label),
		FakeProbability: o.FakeProbability,
		RealProbability: o.RealProbability,
		Confidence:      o.Confidence,
		WordCount:       o.WordCount,
		CharCount:       o.CharCount,
		CleanedText:     o.CleanedText,
		Model:           o.Model,
		AnalyzedAt:      o.AnalyzedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode outcome: %w", err)
	}
	return data, nil
}

func decodeOutcome(data []byte) (*domain.AnalysisOutcome, error) {
	var c cachedOutcome
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode outcome: %w", err)
	}

	label := domain.Label(c.Label)
	if label != domain.LabelFake && label != domain.LabelReal {
		return nil, fmt.Errorf("unexpected label in cache: %q", c.Label)
	}

	return &domain.AnalysisOutcome{
		Label:           label,
		FakeProbability: c.FakeProbability,
		RealProbability: c.RealProbability,
		Confidence:      c.Confidence,
		WordCount:       c.WordCount,
		CharCount:       c.CharCount,
		CleanedText:     c.CleanedText,
		Model:           c.Model,
		AnalyzedAt:      c.AnalyzedAt,
	}, nil
}
