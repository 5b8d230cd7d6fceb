package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// 依存先ごとの確認タイムアウト
const pingTimeout = 2 * time.Second

// コンポーネントの状態
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDisabled = "disabled"
	StatusError    = "error"
)

// HealthHandler ヘルスチェックのハンドラー
type HealthHandler struct {
	version    string
	model      string
	components map[string]Pinger
}

// NewHealthHandler 新しいHealthHandlerを作成
// components の値が nil のものは無効として報告する。
func NewHealthHandler(version, model string, components map[string]Pinger) *HealthHandler {
	if components == nil {
		components = map[string]Pinger{}
	}
	return &HealthHandler{
		version:    version,
		model:      model,
		components: components,
	}
}

// HealthResponse ヘルスチェックのレスポンス
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Model      string            `json:"model"`
	Components map[string]string `json:"components,omitempty"`
}

// ServeHTTP ヘルスチェックを処理
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:     StatusOK,
		Version:    h.version,
		Model:      h.model,
		Components: make(map[string]string, len(h.components)),
	}

	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status := h.check(r.Context(), name, h.components[name])
		response.Components[name] = status
		if status == StatusError {
			response.Status = StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if response.Status != StatusOK {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) check(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return StatusDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		slog.Warn("health check failed", "component", name, "error", err)
		return StatusError
	}
	return StatusOK
}
