package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"news-detector-app/internal/config"
)

// ErrTooLarge 記事が最大サイズを超えた
var ErrTooLarge = errors.New("article too large")

// Fetcher ニュース記事のHTMLから本文を取り出す
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewFetcher 新しいFetcherを作成
// client が nil の場合は cfg.Timeout を使ったクライアントを作る。
func NewFetcher(cfg *config.ArticleConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
	}
}

// Fetch URLの記事本文を段落ごとに改行で区切って返す
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid article url: %q", rawURL)
	}

	doc, err := f.fetchDocument(ctx, u.String())
	if err != nil {
		return "", err
	}

	return ExtractText(doc), nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		// 途中で切れた本文では判定しない
		data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		if int64(len(data)) > f.maxBytes {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, pageURL, f.maxBytes)
		}
		body = bytes.NewReader(data)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// ExtractText 本文を抽出
// article内の段落、ページ全体の段落、body全体の順に探す。
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()

	if paras := paragraphs(doc.Find("article p")); len(paras) > 0 {
		return strings.Join(paras, "\n")
	}
	if paras := paragraphs(doc.Find("p")); len(paras) > 0 {
		return strings.Join(paras, "\n")
	}
	return collapse(doc.Find("body").Text())
}

func paragraphs(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, p *goquery.Selection) {
		if text := collapse(p.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
