package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// 分類器の種類
const (
	KindLogisticRegression = "logistic_regression"
	KindMultinomialNB      = "multinomial_nb"
)

// 正規化方式
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = "none"
)

// VectorizerArtifact 学習済みTF-IDFベクトライザーの内容
type VectorizerArtifact struct {
	Name        string         `json:"name" msgpack:"name"`
	Vocabulary  map[string]int `json:"vocabulary" msgpack:"vocabulary"`
	IDF         []float64      `json:"idf,omitempty" msgpack:"idf,omitempty"`
	NgramRange  [2]int         `json:"ngram_range" msgpack:"ngram_range"`
	StopWords   []string       `json:"stop_words,omitempty" msgpack:"stop_words,omitempty"`
	Lowercase   bool           `json:"lowercase" msgpack:"lowercase"`
	SublinearTF bool           `json:"sublinear_tf" msgpack:"sublinear_tf"`
	Norm        string         `json:"norm" msgpack:"norm"`
}

// ClassifierArtifact 学習済み二値分類器の内容
type ClassifierArtifact struct {
	Name    string `json:"name" msgpack:"name"`
	Version string `json:"version" msgpack:"version"`
	Kind    string `json:"kind" msgpack:"kind"`
	Classes []int  `json:"classes" msgpack:"classes"`

	// logistic_regression
	Coef      []float64 `json:"coef,omitempty" msgpack:"coef,omitempty"`
	Intercept float64   `json:"intercept,omitempty" msgpack:"intercept,omitempty"`

	// multinomial_nb
	ClassLogPrior  []float64   `json:"class_log_prior,omitempty" msgpack:"class_log_prior,omitempty"`
	FeatureLogProb [][]float64 `json:"feature_log_prob,omitempty" msgpack:"feature_log_prob,omitempty"`
}

// Features ベクトライザーの特徴量数
func (a *VectorizerArtifact) Features() int {
	if len(a.IDF) > 0 {
		return len(a.IDF)
	}
	n := 0
	for _, idx := range a.Vocabulary {
		if idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

// Validate 内容を検証
func (a *VectorizerArtifact) Validate() error {
	if len(a.Vocabulary) == 0 {
		return fmt.Errorf("vectorizer vocabulary is empty")
	}

	n := a.Features()
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= n {
			return fmt.Errorf("vocabulary index out of range: %q -> %d (features=%d)", term, idx, n)
		}
	}

	minN, maxN := a.ngramRange()
	if minN < 1 || maxN < minN {
		return fmt.Errorf("invalid ngram_range: [%d, %d]", minN, maxN)
	}

	switch a.Norm {
	case "", NormL2, NormL1, NormNone:
	default:
		return fmt.Errorf("unsupported norm: %s", a.Norm)
	}

	return nil
}

// ngramRange 未指定の場合は(1, 1)
func (a *VectorizerArtifact) ngramRange() (int, int) {
	if a.NgramRange == [2]int{} {
		return 1, 1
	}
	return a.NgramRange[0], a.NgramRange[1]
}

// Features 分類器の特徴量数
func (a *ClassifierArtifact) Features() int {
	switch a.Kind {
	case KindLogisticRegression:
		return len(a.Coef)
	case KindMultinomialNB:
		if len(a.FeatureLogProb) > 0 {
			return len(a.FeatureLogProb[0])
		}
	}
	return 0
}

// Validate 内容を検証
func (a *ClassifierArtifact) Validate() error {
	if len(a.Classes) != 2 || a.Classes[0] != 0 || a.Classes[1] != 1 {
		return fmt.Errorf("classes must be [0 1], got %v", a.Classes)
	}

	switch a.Kind {
	case KindLogisticRegression:
		if len(a.Coef) == 0 {
			return fmt.Errorf("logistic regression coef is empty")
		}
	case KindMultinomialNB:
		if len(a.ClassLogPrior) != 2 || len(a.FeatureLogProb) != 2 {
			return fmt.Errorf("naive bayes requires parameters for 2 classes")
		}
		if len(a.FeatureLogProb[0]) == 0 || len(a.FeatureLogProb[0]) != len(a.FeatureLogProb[1]) {
			return fmt.Errorf("naive bayes feature_log_prob rows have inconsistent length")
		}
	default:
		return fmt.Errorf("unsupported classifier kind: %q", a.Kind)
	}

	return nil
}

// DisplayName 表示・キャッシュキー用のモデル名
func (a *ClassifierArtifact) DisplayName() string {
	name := a.Name
	if name == "" {
		name = a.Kind
	}
	if a.Version != "" {
		return name + "@" + a.Version
	}
	return name
}

// ReadArtifact 拡張子に応じてファイルをデコード（.jsonはJSON、それ以外はMessagePack）
func ReadArtifact(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	if isJSON(path) {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode json artifact: %w", err)
		}
		return nil
	}

	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode msgpack artifact: %w", err)
	}
	return nil
}

// WriteArtifact 拡張子に応じてファイルへエンコード
func WriteArtifact(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = msgpack.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
