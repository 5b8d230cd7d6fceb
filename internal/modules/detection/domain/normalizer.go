package domain

import (
	"regexp"
	"strings"
)

// asciiPunctuation 削除対象の記号
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	bracketPattern    = regexp.MustCompile(`\[.*?\]`)
	nonWordPattern    = regexp.MustCompile(`\W`)
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	markupPattern     = regexp.MustCompile(`<.*?>+`)
	digitTokenPattern = regexp.MustCompile(`\w*\d\w*`)
)

// 正規化の段階順序の名前
const (
	VariantLegacy = "legacy"
	VariantMarkup = "markup"
)

// Normalizer 記事テキストの正規化
//
// 学習時と同じ順序で置換を適用する。URL・タグの除去は記号の空白置換の後に
// 行われるため、既定の順序ではほとんど一致しない。
type Normalizer struct {
	markupFirst bool
}

// NormalizerOption Normalizerのオプション
type NormalizerOption func(*Normalizer)

// WithMarkupFirst URL・タグの除去を記号の空白置換より前に行う
func WithMarkupFirst(enabled bool) NormalizerOption {
	return func(n *Normalizer) {
		n.markupFirst = enabled
	}
}

// NewNormalizer 新しいNormalizerを作成
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// MarkupFirst URL・タグ除去を先に行う設定かどうか
func (n *Normalizer) MarkupFirst() bool {
	return n.markupFirst
}

// Variant 段階順序の名前
// 順序が違えば同じ入力でも結果が変わるため、キャッシュキーに含める。
func (n *Normalizer) Variant() string {
	if n.markupFirst {
		return VariantMarkup
	}
	return VariantLegacy
}

// Normalize テキストを正規化
// 前後の空白の除去や連続空白の圧縮は行わない。
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToLower(text)
	text = bracketPattern.ReplaceAllLiteralString(text, "")

	if n.markupFirst {
		text = stripMarkup(text)
	}

	text = nonWordPattern.ReplaceAllLiteralString(text, " ")

	if !n.markupFirst {
		text = stripMarkup(text)
	}

	text = strings.Map(dropPunctuation, text)
	text = strings.ReplaceAll(text, "\n", "")
	text = digitTokenPattern.ReplaceAllLiteralString(text, "")

	return text
}

// stripMarkup URLとHTMLタグ様の断片を除去
func stripMarkup(text string) string {
	text = urlPattern.ReplaceAllLiteralString(text, "")
	return markupPattern.ReplaceAllLiteralString(text, "")
}

func dropPunctuation(r rune) rune {
	if strings.ContainsRune(asciiPunctuation, r) {
		return -1
	}
	return r
}

var defaultNormalizer = NewNormalizer()

// Normalize 既定の順序でテキストを正規化
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}
