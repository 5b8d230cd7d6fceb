package domain

// FeatureMatrix ベクトル化済みの特徴量
// 中身は分類器だけが解釈する。1入力文字列につき1行。
type FeatureMatrix interface {
	Rows() int
}

// Vectorizer 学習済みベクトライザー
type Vectorizer interface {
	Transform(docs []string) (FeatureMatrix, error)
}

// Classifier 学習済み分類器
type Classifier interface {
	// Predict 各行の予測クラスインデックスを返す
	Predict(x FeatureMatrix) ([]int, error)

	// PredictProba 各行の [P(class=0), P(class=1)] を返す
	PredictProba(x FeatureMatrix) ([][]float64, error)
}

// TextNormalizer ベクトル化前のテキスト正規化
type TextNormalizer interface {
	Normalize(text string) string
}
