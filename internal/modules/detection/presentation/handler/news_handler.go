package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"news-detector-app/internal/modules/detection/domain"
)

// リクエストボディの上限
const maxBodyBytes = 5 << 20

// NewsHandler 判定APIのハンドラー
type NewsHandler struct {
	detection DetectionUseCaseInterface
	history   HistoryUseCaseInterface
	cache     OutcomeCacheInterface
	logger    *slog.Logger
}

// NewNewsHandler 新しいNewsHandlerを作成
// history と cache は無効な場合 nil を渡す。
func NewNewsHandler(
	detection DetectionUseCaseInterface,
	history HistoryUseCaseInterface,
	cache OutcomeCacheInterface,
	logger *slog.Logger,
) *NewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsHandler{
		detection: detection,
		history:   history,
		cache:     cache,
		logger:    logger,
	}
}

// AnalyzeRequest 判定APIリクエスト
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeURLRequest URL判定APIリクエスト
type AnalyzeURLRequest struct {
	URL string `json:"url"`
}

// OutcomeResponse 判定結果
type OutcomeResponse struct {
	Label             string    `json:"label"`
	FakeProbability   float64   `json:"fake_probability"`
	RealProbability   float64   `json:"real_probability"`
	Confidence        float64   `json:"confidence"`
	ConfidencePercent float64   `json:"confidence_percent"`
	WordCount         int       `json:"word_count"`
	CharCount         int       `json:"char_count"`
	CleanedText       string    `json:"cleaned_text"`
	Model             string    `json:"model"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}

// AnalyzeResponse 判定APIレスポンス
type AnalyzeResponse struct {
	Success bool             `json:"success"`
	Result  *OutcomeResponse `json:"result,omitempty"`
	Warning string           `json:"warning,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// NormalizeResponse 正規化APIレスポンス
type NormalizeResponse struct {
	Success     bool   `json:"success"`
	CleanedText string `json:"cleaned_text"`
}

// RecordResponse 解析履歴
type RecordResponse struct {
	ID              string    `json:"id"`
	TextHash        string    `json:"text_hash"`
	Excerpt         string    `json:"excerpt"`
	Label           string    `json:"label"`
	FakeProbability float64   `json:"fake_probability"`
	RealProbability float64   `json:"real_probability"`
	Confidence      float64   `json:"confidence"`
	WordCount       int       `json:"word_count"`
	CharCount       int       `json:"char_count"`
	Model           string    `json:"model"`
	CreatedAt       time.Time `json:"created_at"`
}

// SummaryResponse ラベル別件数
type SummaryResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HistoryResponse 解析履歴APIレスポンス
type HistoryResponse struct {
	Success bool              `json:"success"`
	Records []RecordResponse  `json:"records"`
	Summary []SummaryResponse `json:"summary"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// RecordDetailResponse 解析履歴1件のレスポンス
type RecordDetailResponse struct {
	Success bool            `json:"success"`
	Record  *RecordResponse `json:"record"`
}

// errorResponse エラーレスポンス
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleAnalyze テキスト判定ハンドラー
func (h *NewsHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	model := h.detection.ModelName()
	variant := h.detection.NormalizerVariant()

	// Redisキャッシュチェック
	if h.cache != nil {
		if cached, ok := h.cache.Lookup(ctx, model, variant, request.Text); ok {
			w.Header().Set("X-Cache", "HIT")
			h.sendJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Result: NewOutcomeResponse(cached)})
			return
		}
	}

	outcome, err := h.detection.Analyze(ctx, request.Text)
	if err != nil {
		h.sendAnalyzeError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Store(ctx, model, variant, request.Text, outcome); err != nil {
			h.logger.Warn("failed to cache outcome", "error", err)
		}
		w.Header().Set("X-Cache", "MISS")
	}

	h.sendJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Result: NewOutcomeResponse(outcome)})
}

// HandleAnalyzeURL 記事URL判定ハンドラー
func (h *NewsHandler) HandleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request AnalyzeURLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.URL == "" {
		h.sendError(w, "url is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.detection.AnalyzeURL(r.Context(), request.URL)
	if err != nil {
		h.sendAnalyzeError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Result: NewOutcomeResponse(outcome)})
}

// HandleNormalize 正規化のみ行うハンドラー
func (h *NewsHandler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.sendJSON(w, http.StatusOK, NormalizeResponse{
		Success:     true,
		CleanedText: h.detection.Normalize(request.Text),
	})
}

// HandleHistory 解析履歴一覧ハンドラー
func (h *NewsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.history == nil {
		h.sendError(w, "History is disabled", http.StatusNotFound)
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.sendError(w, "limit must be an integer", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		h.sendError(w, "offset must be an integer", http.StatusBadRequest)
		return
	}
	limit, offset = domain.ClampPage(limit, offset)

	ctx := r.Context()
	records, err := h.history.ListRecent(ctx, limit, offset)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		h.sendError(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	summary, err := h.history.Summary(ctx)
	if err != nil {
		h.logger.Error("failed to summarize history", "error", err)
		h.sendError(w, "Failed to get history summary", http.StatusInternalServerError)
		return
	}

	response := HistoryResponse{
		Success: true,
		Records: make([]RecordResponse, 0, len(records)),
		Summary: make([]SummaryResponse, 0, len(summary)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, rec := range records {
		response.Records = append(response.Records, *toRecordResponse(rec))
	}
	for _, s := range summary {
		response.Summary = append(response.Summary, SummaryResponse{Label: string(s.Label), Count: s.Count})
	}

	h.sendJSON(w, http.StatusOK, response)
}

// HandleHistoryDetail 解析履歴1件ハンドラー
func (h *NewsHandler) HandleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.history == nil {
		h.sendError(w, "History is disabled", http.StatusNotFound)
		return
	}

	record, err := h.history.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrRecordNotFound) {
		h.sendError(w, "Analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get history", "error", err)
		h.sendError(w, "Failed to get analysis", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, http.StatusOK, RecordDetailResponse{Success: true, Record: toRecordResponse(record)})
}

// sendAnalyzeError 判定エラーをステータスコードに対応付ける
func (h *NewsHandler) sendAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		h.sendJSON(w, http.StatusUnprocessableEntity, AnalyzeResponse{Success: false, Warning: emptyInputWarning})
	case errors.Is(err, domain.ErrArticleFetch):
		h.logger.Warn("article fetch failed", "error", err)
		h.sendError(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, domain.ErrInference):
		h.logger.Error("inference failed", "error", err)
		h.sendError(w, "Inference failed", http.StatusInternalServerError)
	default:
		h.logger.Error("analysis failed", "error", err)
		h.sendError(w, "Analysis failed", http.StatusInternalServerError)
	}
}

// sendJSON JSONレスポンスを送信
func (h *NewsHandler) sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// sendError エラーレスポンスを送信
func (h *NewsHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, statusCode, errorResponse{Success: false, Error: message})
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// NewOutcomeResponse 解析結果をレスポンス形式に変換
func NewOutcomeResponse(o *domain.AnalysisOutcome) *OutcomeResponse {
	return &OutcomeResponse{
		Label:             string(o.Label),
		FakeProbability:   o.FakeProbability,
		RealProbability:   o.RealProbability,
		Confidence:        o.Confidence,
		ConfidencePercent: o.ConfidencePercent(),
		WordCount:         o.WordCount,
		CharCount:         o.CharCount,
		CleanedText:       o.CleanedText,
		Model:             o.Model,
		AnalyzedAt:        o.AnalyzedAt,
	}
}

func toRecordResponse(r *domain.AnalysisRecord) *RecordResponse {
	return &RecordResponse{
		ID:              r.ID,
		TextHash:        r.TextHash,
		Excerpt:         r.Excerpt,
		Label:           string(r.Label),
		FakeProbability: r.FakeProbability,
		RealProbability: r.RealProbability,
		Confidence:      r.Confidence,
		WordCount:       r.WordCount,
		CharCount:       r.CharCount,
		Model:           r.Model,
		CreatedAt:       r.CreatedAt,
	}
}
