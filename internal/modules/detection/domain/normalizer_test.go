package domain

import (
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "正常系: 小文字化",
			input: "BREAKING",
			want:  "breaking",
		},
		{
			name:  "正常系: 角括弧の注記を除去",
			input: "news [edit] today",
			want:  "news  today",
		},
		{
			name:  "正常系: 複数の角括弧は最短一致で除去",
			input: "a [b] c [d] e",
			want:  "a  c  e",
		},
		{
			name:  "正常系: 先頭の角括弧",
			input: "[Reuters] Officials said",
			want:  " officials said",
		},
		{
			name:  "正常系: 数字を含むトークンを丸ごと除去",
			input: "breaking news covid19 update",
			want:  "breaking news  update",
		},
		{
			name:  "正常系: 記号は空白に置換され数字トークンは消える",
			input: "Covid-19 cases rose 12%",
			want:  "covid  cases rose  ",
		},
		{
			name:  "正常系: 記事の例文",
			input: "The economy grew by 5% this year according to Reuters.",
			want:  "the economy grew by   this year according to reuters ",
		},
		{
			name:  "正常系: アポストロフィは空白になる",
			input: "Don't stop!",
			want:  "don t stop ",
		},
		{
			name:  "正常系: アンダースコアは記号として削除",
			input: "hello_world",
			want:  "helloworld",
		},
		{
			name:  "正常系: 改行は空白になる",
			input: "Line one\nLine two",
			want:  "line one line two",
		},
		{
			name:  "正常系: URLは記号置換後のため残る",
			input: "Visit https://example.com/page now",
			want:  "visit https   example com page now",
		},
		{
			name:  "正常系: タグも記号置換後のため文字だけ残る",
			input: "<b>Bold</b> claim",
			want:  " b bold  b  claim",
		},
		{
			name:  "正常系: ASCII以外の文字は1文字ずつ空白",
			input: "Café",
			want:  "caf ",
		},
		{
			name:  "境界値: 空文字列",
			input: "",
			want:  "",
		},
		{
			name:  "境界値: 空白のみは保持",
			input: "   ",
			want:  "   ",
		},
		{
			name:  "境界値: 数字だけ",
			input: "123 456",
			want:  " ",
		},
		{
			name:  "境界値: 英数字混在トークン",
			input: "mp3 player abc123def",
			want:  " player ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizer_MarkupFirst(t *testing.T) {
	n := NewNormalizer(WithMarkupFirst(true))

	if !n.MarkupFirst() {
		t.Fatal("MarkupFirst() = false, want true")
	}
	if n.Variant() != VariantMarkup {
		t.Errorf("Variant() = %q, want %q", n.Variant(), VariantMarkup)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "正常系: URLを除去",
			input: "Visit https://example.com/page now",
			want:  "visit  now",
		},
		{
			name:  "正常系: wwwで始まるURLを除去",
			input: "see www.example.com today",
			want:  "see  today",
		},
		{
			name:  "正常系: タグを除去",
			input: "<b>Bold</b> claim",
			want:  "bold claim",
		},
		{
			name:  "正常系: それ以外は既定と同じ",
			input: "The economy grew by 5% this year according to Reuters.",
			want:  "the economy grew by   this year according to reuters ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewNormalizer_DefaultOrder(t *testing.T) {
	n := NewNormalizer()
	if n.MarkupFirst() {
		t.Error("default normalizer should keep the legacy stage order")
	}
	if n.Variant() != VariantLegacy {
		t.Errorf("Variant() = %q, want %q", n.Variant(), VariantLegacy)
	}

	input := "Visit https://example.com/page now"
	if n.Normalize(input) != Normalize(input) {
		t.Error("NewNormalizer() and Normalize() disagree")
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	inputs := []string{
		"",
		"BREAKING: Scientists [citation needed] discover 3 new planets!!!",
		"Visit www.example.com for <i>more</i> info\n\n",
		"日本語のニュース 2025年",
	}

	for _, input := range inputs {
		first := Normalize(input)
		for i := 0; i < 5; i++ {
			if got := Normalize(input); got != first {
				t.Fatalf("Normalize(%q) changed between calls: %q != %q", input, got, first)
			}
		}
	}
}

// 再適用の結果は保証しない。現在の実装で観測される値を記録する。
func TestNormalize_RepeatedApplication(t *testing.T) {
	input := "The economy grew by 5% this year according to Reuters."

	once := Normalize(input)
	twice := Normalize(once)

	if once != "the economy grew by   this year according to reuters " {
		t.Errorf("first pass = %q", once)
	}
	if twice != "the economy grew by   this year according to reuters " {
		t.Errorf("second pass = %q", twice)
	}
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	inputs := []string{
		"BREAKING NEWS!!! Covid19 vaccine CAUSES 5G [edit] <script>alert(1)</script>",
		"Ünïcödé — “quoted” text… 42",
		"tabs\tand\r\nnewlines",
		"already clean text",
	}

	for _, input := range inputs {
		got := Normalize(input)
		for _, r := range got {
			if unicode.IsUpper(r) {
				t.Errorf("Normalize(%q) contains uppercase %q", input, r)
			}
			if unicode.IsDigit(r) {
				t.Errorf("Normalize(%q) contains digit %q", input, r)
			}
			if strings.ContainsRune(asciiPunctuation, r) {
				t.Errorf("Normalize(%q) contains punctuation %q", input, r)
			}
			if r == '\n' {
				t.Errorf("Normalize(%q) contains newline", input)
			}
		}
	}
}

func TestNormalize_DigitTokensRemoved(t *testing.T) {
	got := Normalize("breaking news covid19 update")

	if strings.Contains(got, "covid") {
		t.Errorf("token with digit partially survived: %q", got)
	}
	if strings.ContainsAny(got, "0123456789") {
		t.Errorf("digits survived: %q", got)
	}
}
