package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// 正常時はアクセスログを出さないパス
const healthPath = "/health"

// responseWriter ステータスコードと書き込みバイト数をキャプチャ
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger アクセスログミドルウェア
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logRequest(r, rw, time.Since(start))
	})
}

// LoggerWithHealthCheck ヘルスチェックは失敗時のみ記録するアクセスログ
func LoggerWithHealthCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		if r.URL.Path == healthPath {
			if rw.statusCode != http.StatusOK {
				slog.Error("Health check failed",
					"status", rw.statusCode,
					"request_id", RequestIDFromContext(r.Context()),
				)
			}
			return
		}

		logRequest(r, rw, time.Since(start))
	})
}

func logRequest(r *http.Request, rw *responseWriter, duration time.Duration) {
	level := slog.LevelInfo
	if rw.statusCode >= http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	slog.Log(r.Context(), level, "HTTP request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rw.statusCode,
		"bytes", rw.written,
		"duration", duration,
		"request_id", RequestIDFromContext(r.Context()),
	)
}
