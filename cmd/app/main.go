package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-detector-app/internal/config"
	"news-detector-app/internal/logging"
	"news-detector-app/internal/presentation/di"
	"news-detector-app/internal/presentation/http/router"
)

// デフォルトのポート番号
const defaultPort = "8080"

// AppConfig アプリケーション設定
type AppConfig struct {
	ConfigPath string
	Port       string
}

// ServerInterface サーバーインターフェース（Seam化）
type ServerInterface interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// App アプリケーション構造体（Seamパターン）
type App struct {
	config     *AppConfig
	cfg        *config.Config
	container  *di.Container
	server     *http.Server
	serverSeam ServerInterface // テスト用のSeam
}

// NewApp 新しいAppを作成
// ポートは AppConfig.Port、設定ファイルの server.port、8080 の順に決まる。
func NewApp(appCfg *AppConfig) (*App, error) {
	cfg, err := loadConfig(appCfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if appCfg.Port == "" {
		appCfg.Port = cfg.Server.Port
	}
	if appCfg.Port == "" {
		appCfg.Port = defaultPort
	}

	// DIコンテナの初期化
	container, err := di.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DI container: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router.NewRouter(container),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	app := &App{
		config:    appCfg,
		cfg:       cfg,
		container: container,
		server:    server,
	}
	// デフォルトでは実際のサーバーを使用
	app.serverSeam = server

	return app, nil
}

// Start サーバーを起動
func (a *App) Start() error {
	a.printStartupMessage()
	return a.serverSeam.ListenAndServe()
}

// printStartupMessage 起動メッセージを出力
func (a *App) printStartupMessage() {
	fmt.Println("=== Fake News Detector ===")
	fmt.Printf("Model: %s\n", a.container.ModelName())
	fmt.Printf("Cache: %s, History: %s\n", enabled(a.cfg.Redis.Enabled), enabled(a.cfg.MySQL.Enabled))
	fmt.Printf("Server listening on http://0.0.0.0:%s\n", a.config.Port)
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /                             - Web UI")
	fmt.Println("  GET  /health                       - Health check")
	fmt.Println("  POST /api/v1/news/analyze          - Analyze text")
	fmt.Println("  POST /api/v1/news/analyze-url      - Analyze article URL")
	fmt.Println("  POST /api/v1/news/normalize        - Normalize text")
	fmt.Println("  GET  /api/v1/news/history          - Analysis history")
	fmt.Println()
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// Shutdown サーバーをシャットダウン
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server...")

	if err := a.serverSeam.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := a.container.Close(); err != nil {
		return fmt.Errorf("container close failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// Run アプリケーションを実行（グレースフルシャットダウン付き）
func (a *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		if err := a.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		_ = a.container.Close()
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return a.Shutdown(ctx)
	}
}

// realMain 実際のmain処理（テスト可能にするため分離）
func realMain() error {
	return newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute()
}

func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
