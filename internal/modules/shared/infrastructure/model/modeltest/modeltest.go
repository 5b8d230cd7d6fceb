// Package modeltest テスト用の小さな学習済みアーティファクト
package modeltest

import (
	"path/filepath"
	"testing"

	"news-detector-app/internal/config"
	"news-detector-app/internal/modules/shared/infrastructure/model"
)

// Vectorizer 「fake系」「real系」の語彙を持つベクトライザー
func Vectorizer() *model.VectorizerArtifact {
	return &model.VectorizerArtifact{
		Name: "test-tfidf",
		Vocabulary: map[string]int{
			"shocking":   0,
			"secret":     1,
			"miracle":    2,
			"reuters":    3,
			"officials":  4,
			"percent":    5,
			"government": 6,
		},
		IDF:        []float64{1.5, 1.5, 1.5, 1.2, 1.2, 1.2, 1.0},
		NgramRange: [2]int{1, 1},
		Lowercase:  true,
		Norm:       model.NormL2,
	}
}

// Classifier fake系の語で負、real系の語で正に寄るロジスティック回帰
func Classifier() *model.ClassifierArtifact {
	return &model.ClassifierArtifact{
		Name:      "test-logreg",
		Version:   "1",
		Kind:      model.KindLogisticRegression,
		Classes:   []int{0, 1},
		Coef:      []float64{-4, -3, -4, 4, 3, 3, 0},
		Intercept: 0,
	}
}

// WriteArtifacts t.TempDir() にアーティファクトを書き出し設定を返す
// ext は ".json" または ".msgpack"。
func WriteArtifacts(t testing.TB, ext string) *config.ModelConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.ModelConfig{
		VectorizerPath: filepath.Join(dir, "vectorizer"+ext),
		ClassifierPath: filepath.Join(dir, "model"+ext),
	}

	if err := model.WriteArtifact(cfg.VectorizerPath, Vectorizer()); err != nil {
		t.Fatalf("failed to write vectorizer: %v", err)
	}
	if err := model.WriteArtifact(cfg.ClassifierPath, Classifier()); err != nil {
		t.Fatalf("failed to write classifier: %v", err)
	}
	return cfg
}

// Bundle テスト用アーティファクトから組み立てたBundle
func Bundle(t testing.TB) *model.Bundle {
	t.Helper()

	b, err := model.NewBundle(Vectorizer(), Classifier())
	if err != nil {
		t.Fatalf("failed to build bundle: %v", err)
	}
	return b
}
