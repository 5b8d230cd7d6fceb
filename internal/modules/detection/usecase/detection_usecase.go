package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"news-detector-app/internal/modules/detection/domain"
)

// Recorder 解析結果の記録先
type Recorder interface {
	Record(ctx context.Context, raw string, outcome *domain.AnalysisOutcome) (*domain.AnalysisRecord, error)
}

// ArticleFetcher URLから記事本文を取得
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DetectionDeps DetectionUseCaseの依存
// Recorder と Fetcher は省略可能。
type DetectionDeps struct {
	Normalizer domain.TextNormalizer
	Vectorizer domain.Vectorizer
	Classifier domain.Classifier
	ModelName  string
	Recorder   Recorder
	Fetcher    ArticleFetcher
	Logger     *slog.Logger
}

// DetectionUseCase フェイクニュース判定のユースケース
type DetectionUseCase struct {
	normalizer domain.TextNormalizer
	vectorizer domain.Vectorizer
	classifier domain.Classifier
	modelName  string
	recorder   Recorder
	fetcher    ArticleFetcher
	logger     *slog.Logger
}

// NewDetectionUseCase 新しいDetectionUseCaseを作成
func NewDetectionUseCase(deps DetectionDeps) *DetectionUseCase {
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = domain.NewNormalizer()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DetectionUseCase{
		normalizer: normalizer,
		vectorizer: deps.Vectorizer,
		classifier: deps.Classifier,
		modelName:  deps.ModelName,
		recorder:   deps.Recorder,
		fetcher:    deps.Fetcher,
		logger:     logger,
	}
}

// Analyze テキストを正規化して判定する
func (uc *DetectionUseCase) Analyze(ctx context.Context, raw string) (*domain.AnalysisOutcome, error) {
	// 入力検証
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrEmptyInput
	}

	cleaned := uc.normalizer.Normalize(raw)

	prediction, err := uc.predict(cleaned)
	if err != nil {
		return nil, err
	}

	outcome := domain.NewAnalysisOutcome(prediction, domain.NewTextStats(raw), cleaned, uc.modelName)

	if uc.recorder != nil {
		if _, err := uc.recorder.Record(ctx, raw, outcome); err != nil {
			uc.logger.Warn("failed to record analysis", "error", err, "label", outcome.Label)
		}
	}

	return outcome, nil
}

// predict ベクトル化と分類器の呼び出し
func (uc *DetectionUseCase) predict(cleaned string) (domain.PredictionResult, error) {
	features, err := uc.vectorizer.Transform([]string{cleaned})
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("%w: vectorize: %w", domain.ErrInference, err)
	}
	if features == nil || features.Rows() != 1 {
		return domain.PredictionResult{}, fmt.Errorf("%w: vectorizer returned %s for one document", domain.ErrInference, describeRows(features))
	}

	labels, err := uc.classifier.Predict(features)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("%w: predict: %w", domain.ErrInference, err)
	}
	if len(labels) != 1 {
		return domain.PredictionResult{}, fmt.Errorf("%w: classifier returned %d labels for one document", domain.ErrInference, len(labels))
	}

	probs, err := uc.classifier.PredictProba(features)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("%w: predict_proba: %w", domain.ErrInference, err)
	}
	if len(probs) != 1 {
		return domain.PredictionResult{}, fmt.Errorf("%w: classifier returned %d probability rows for one document", domain.ErrInference, len(probs))
	}

	return domain.NewPredictionResult(labels[0], probs[0])
}

func describeRows(x domain.FeatureMatrix) string {
	if x == nil {
		return "no matrix"
	}
	return fmt.Sprintf("%d rows", x.Rows())
}

// AnalyzeURL 記事を取得して判定する
func (uc *DetectionUseCase) AnalyzeURL(ctx context.Context, url string) (*domain.AnalysisOutcome, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is empty", domain.ErrArticleFetch)
	}
	if uc.fetcher == nil {
		return nil, fmt.Errorf("%w: article fetching is not configured", domain.ErrArticleFetch)
	}

	text, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrArticleFetch, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no article text found at %s", domain.ErrArticleFetch, url)
	}

	return uc.Analyze(ctx, text)
}

// Normalize 正規化のみ行う
func (uc *DetectionUseCase) Normalize(raw string) string {
	return uc.normalizer.Normalize(raw)
}

// ModelName モデル名を取得
func (uc *DetectionUseCase) ModelName() string {
	return uc.modelName
}

// NormalizerVariant 正規化の段階順序の名前
// Variant を持たない独自の正規化は "custom" とする。
func (uc *DetectionUseCase) NormalizerVariant() string {
	if v, ok := uc.normalizer.(interface{ Variant() string }); ok {
		return v.Variant()
	}
	return "custom"
}
