package model

import (
	"errors"
	"fmt"

	"news-detector-app/internal/config"
	"news-detector-app/internal/modules/detection/domain"
)

// ErrArtifactLoad アーティファクトの読み込み失敗
var ErrArtifactLoad = errors.New("failed to load model artifact")

// Bundle 読み込み済みのベクトライザーと分類器の組
type Bundle struct {
	Vectorizer domain.Vectorizer
	Classifier domain.Classifier
	Name       string
}

// Load 設定されたパスからベクトライザーと分類器を読み込む
func Load(cfg *config.ModelConfig) (*Bundle, error) {
	var va VectorizerArtifact
	if err := ReadArtifact(cfg.VectorizerPath, &va); err != nil {
		return nil, fmt.Errorf("%w: vectorizer %s: %w", ErrArtifactLoad, cfg.VectorizerPath, err)
	}

	var ca ClassifierArtifact
	if err := ReadArtifact(cfg.ClassifierPath, &ca); err != nil {
		return nil, fmt.Errorf("%w: classifier %s: %w", ErrArtifactLoad, cfg.ClassifierPath, err)
	}

	return NewBundle(&va, &ca)
}

// NewBundle アーティファクトを検証して組み立てる
func NewBundle(va *VectorizerArtifact, ca *ClassifierArtifact) (*Bundle, error) {
	vectorizer, err := NewTfidfVectorizer(va)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vectorizer: %w", ErrArtifactLoad, err)
	}

	if err := ca.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid classifier: %w", ErrArtifactLoad, err)
	}

	if vectorizer.Features() != ca.Features() {
		return nil, fmt.Errorf("%w: vectorizer produces %d features but classifier expects %d",
			ErrArtifactLoad, vectorizer.Features(), ca.Features())
	}

	var classifier domain.Classifier
	switch ca.Kind {
	case KindLogisticRegression:
		classifier = NewLogisticRegression(ca)
	case KindMultinomialNB:
		classifier = NewMultinomialNB(ca)
	}

	return &Bundle{
		Vectorizer: vectorizer,
		Classifier: classifier,
		Name:       ca.DisplayName(),
	}, nil
}

// ConvertArtifact アーティファクトの形式を変換（例: JSON → MessagePack）
// kind は "vectorizer" または "classifier"。
func ConvertArtifact(kind, in, out string) error {
	var v interface{ Validate() error }
	switch kind {
	case "vectorizer":
		v = &VectorizerArtifact{}
	case "classifier":
		v = &ClassifierArtifact{}
	default:
		return fmt.Errorf("unknown artifact kind: %q", kind)
	}

	if err := ReadArtifact(in, v); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid %s artifact: %w", kind, err)
	}
	return WriteArtifact(out, v)
}
