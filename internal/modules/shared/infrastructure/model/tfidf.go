package model

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"news-detector-app/internal/modules/detection/domain"
)

// 2文字以上の単語を1トークンとする
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// TfidfVectorizer 学習済み語彙とIDFによるベクトライザー
type TfidfVectorizer struct {
	name        string
	vocabulary  map[string]int
	idf         []float64
	minN        int
	maxN        int
	stopWords   map[string]struct{}
	lowercase   bool
	sublinearTF bool
	norm        string
	features    int
}

var _ domain.Vectorizer = (*TfidfVectorizer)(nil)

// NewTfidfVectorizer アーティファクトからベクトライザーを作成
func NewTfidfVectorizer(a *VectorizerArtifact) (*TfidfVectorizer, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	minN, maxN := a.ngramRange()
	norm := a.Norm
	if norm == "" {
		norm = NormL2
	}

	stopWords := make(map[string]struct{}, len(a.StopWords))
	for _, w := range a.StopWords {
		stopWords[w] = struct{}{}
	}

	return &TfidfVectorizer{
		name:        a.Name,
		vocabulary:  a.Vocabulary,
		idf:         a.IDF,
		minN:        minN,
		maxN:        maxN,
		stopWords:   stopWords,
		lowercase:   a.Lowercase,
		sublinearTF: a.SublinearTF,
		norm:        norm,
		features:    a.Features(),
	}, nil
}

// Name ベクトライザー名
func (v *TfidfVectorizer) Name() string {
	return v.name
}

// Features 特徴量数
func (v *TfidfVectorizer) Features() int {
	return v.features
}

// Transform 文書ごとに1行の疎行列を返す
func (v *TfidfVectorizer) Transform(docs []string) (domain.FeatureMatrix, error) {
	rows := make([]SparseRow, len(docs))
	for i, doc := range docs {
		rows[i] = v.vectorize(doc)
	}
	return NewSparseMatrix(v.features, rows...), nil
}

// analyze トークン化してn-gramを作る
func (v *TfidfVectorizer) analyze(doc string) []string {
	if v.lowercase {
		doc = strings.ToLower(doc)
	}

	tokens := tokenPattern.FindAllString(doc, -1)
	if len(v.stopWords) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := v.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}

	var terms []string
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func (v *TfidfVectorizer) vectorize(doc string) SparseRow {
	counts := make(map[int]float64)
	for _, term := range v.analyze(doc) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if len(v.idf) > 0 {
			tf *= v.idf[idx]
		}
		values[i] = tf
	}

	normalize(values, v.norm)
	return SparseRow{Indices: indices, Values: values}
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case NormL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}

	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}

// String デバッグ用
func (v *TfidfVectorizer) String() string {
	return fmt.Sprintf("tfidf(%s, features=%d, ngram=%d-%d, norm=%s)", v.name, v.features, v.minN, v.maxN, v.norm)
}
