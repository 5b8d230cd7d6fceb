package router

import (
	"io/fs"
	"net/http"

	"news-detector-app/internal/presentation/di"
	"news-detector-app/internal/presentation/http/middleware"
	"news-detector-app/web"
)

// NewRouter 新しいルーターを作成
func NewRouter(container *di.Container) http.Handler {
	mux := http.NewServeMux()

	// Web UI ハンドラー
	webHandler := container.WebHandler()
	mux.HandleFunc("GET /{$}", webHandler.HandleIndex)
	mux.HandleFunc("POST /analyze", webHandler.HandleAnalyze)
	mux.HandleFunc("GET /history", webHandler.HandleHistory)

	// Static files
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// News API ハンドラー
	newsHandler := container.NewsHandler()
	mux.HandleFunc("POST /api/v1/news/analyze", newsHandler.HandleAnalyze)
	mux.HandleFunc("POST /api/v1/news/analyze-url", newsHandler.HandleAnalyzeURL)
	mux.HandleFunc("POST /api/v1/news/normalize", newsHandler.HandleNormalize)
	mux.HandleFunc("GET /api/v1/news/history", newsHandler.HandleHistory)
	mux.HandleFunc("GET /api/v1/news/history/{id}", newsHandler.HandleHistoryDetail)

	// Health check
	mux.Handle("GET /health", container.HealthHandler())

	// ミドルウェアの適用
	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.LoggerWithHealthCheck(h)
	h = middleware.CORS(h)
	h = middleware.RequestID(h)

	return h
}
