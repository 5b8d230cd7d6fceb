package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// excerptLength 履歴に保存する本文の先頭文字数
const excerptLength = 200

// 履歴一覧の件数
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ClampPage 履歴一覧のlimit・offsetを有効な範囲に収める
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// AnalysisRecord 解析履歴エンティティ
type AnalysisRecord struct {
	ID              string
	TextHash        string
	Excerpt         string
	Label           Label
	FakeProbability float64
	RealProbability float64
	Confidence      float64
	WordCount       int
	CharCount       int
	Model           string
	CreatedAt       time.Time
}

// NewAnalysisRecord 解析結果から履歴を作成
func NewAnalysisRecord(raw string, outcome *AnalysisOutcome) *AnalysisRecord {
	createdAt := outcome.AnalyzedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &AnalysisRecord{
		ID:              uuid.NewString(),
		TextHash:        HashText(raw),
		Excerpt:         Excerpt(raw),
		Label:           outcome.Label,
		FakeProbability: outcome.FakeProbability,
		RealProbability: outcome.RealProbability,
		Confidence:      outcome.Confidence,
		WordCount:       outcome.WordCount,
		CharCount:       outcome.CharCount,
		Model:           outcome.Model,
		CreatedAt:       createdAt,
	}
}

// HashText 入力テキストのSHA256
func HashText(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Excerpt 空白を詰めた先頭部分
func Excerpt(raw string) string {
	compact := strings.Join(strings.Fields(raw), " ")
	runes := []rune(compact)
	if len(runes) <= excerptLength {
		return compact
	}
	return string(runes[:excerptLength]) + "…"
}

// LabelSummary ラベル別の件数
type LabelSummary struct {
	Label Label
	Count int
}
