package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"news-detector-app/internal/modules/detection/domain"
)

// 履歴画面の表示件数
const historyPageSize = 50

// WebHandler Web UIのハンドラー
type WebHandler struct {
	detection DetectionUseCaseInterface
	history   HistoryUseCaseInterface
	pages     map[string]*template.Template
	logger    *slog.Logger
}

// indexPage 入力・結果画面のデータ
type indexPage struct {
	Title          string
	Model          string
	HistoryEnabled bool
	Text           string
	Warning        string
	Error          string
	Result         *resultView
}

// historyPage 履歴画面のデータ
type historyPage struct {
	Title          string
	Model          string
	HistoryEnabled bool
	Records        []*domain.AnalysisRecord
	Summary        []domain.LabelSummary
}

// NewWebHandler 新しいWebHandlerを作成
// テンプレートは起動時に一度だけパースする。
func NewWebHandler(detection DetectionUseCaseInterface, history HistoryUseCaseInterface, assets fs.FS, logger *slog.Logger) (*WebHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	funcMap := template.FuncMap{
		"percent": formatPercent,
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"index", "history"} {
		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(assets,
			"templates/layout/base.html",
			"templates/layout/header.html",
			"templates/layout/footer.html",
			"templates/pages/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &WebHandler{
		detection: detection,
		history:   history,
		pages:     pages,
		logger:    logger,
	}, nil
}

// HandleIndex 入力画面を表示
func (h *WebHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.render(w, http.StatusOK, "index", h.newIndexPage())
}

// HandleAnalyze 入力テキストを判定して結果を表示
func (h *WebHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	page := h.newIndexPage()
	page.Text = r.PostFormValue("text")

	outcome, err := h.detection.Analyze(r.Context(), page.Text)
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		page.Warning = emptyInputWarning
		h.render(w, http.StatusOK, "index", page)
	case err != nil:
		h.logger.Error("inference failed", "error", err)
		page.Error = "Failed to analyze the article. Please try again later."
		h.render(w, http.StatusInternalServerError, "index", page)
	default:
		page.Result = newResultView(outcome)
		h.render(w, http.StatusOK, "index", page)
	}
}

// HandleHistory 解析履歴画面
func (h *WebHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.history == nil {
		http.NotFound(w, r)
		return
	}

	records, err := h.history.ListRecent(r.Context(), historyPageSize, 0)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	summary, err := h.history.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to summarize history", "error", err)
		http.Error(w, "Failed to get history summary", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "history", historyPage{
		Title:          "History",
		Model:          h.detection.ModelName(),
		HistoryEnabled: true,
		Records:        records,
		Summary:        summary,
	})
}

func (h *WebHandler) newIndexPage() *indexPage {
	return &indexPage{
		Title:          "Analyze",
		Model:          h.detection.ModelName(),
		HistoryEnabled: h.history != nil,
	}
}

// render テンプレートを描画
func (h *WebHandler) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "base.html", data); err != nil {
		h.logger.Error("failed to render template", "page", page, "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
