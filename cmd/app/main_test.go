package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	sharedModel "news-detector-app/internal/modules/shared/infrastructure/model"
	"news-detector-app/internal/modules/shared/infrastructure/model/modeltest"
)

// MockServer テスト用のモックサーバー
type MockServer struct {
	listenAndServeFunc func() error
	shutdownFunc       func(ctx context.Context) error
}

func (m *MockServer) ListenAndServe() error {
	if m.listenAndServeFunc != nil {
		return m.listenAndServeFunc()
	}
	return nil
}

func (m *MockServer) Shutdown(ctx context.Context) error {
	if m.shutdownFunc != nil {
		return m.shutdownFunc(ctx)
	}
	return nil
}

// writeConfig テスト用アーティファクトを参照する設定ファイルを作成
func writeConfig(t *testing.T, extra string) string {
	t.Helper()

	model := modeltest.WriteArtifacts(t, ".json")
	content := fmt.Sprintf("model:\n  vectorizer_path: %q\n  classifier_path: %q\nlogging:\n  level: error\n%s",
		model.VectorizerPath, model.ClassifierPath, extra)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	return path
}

func newTestApp(t *testing.T, port string) *App {
	t.Helper()

	app, err := NewApp(&AppConfig{ConfigPath: writeConfig(t, ""), Port: port})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { _ = app.container.Close() })
	return app
}

// TestNewApp_Fast NewAppの高速テスト（サーバー起動なし）
func TestNewApp_Fast(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		extra    string
		wantPort string
	}{
		{
			name:     "正常系: カスタムポート",
			port:     "9090",
			wantPort: ":9090",
		},
		{
			name:     "正常系: 空ポート（デフォルト）",
			port:     "",
			extra:    "server:\n  port: \"\"\n",
			wantPort: ":8080",
		},
		{
			name:     "正常系: 設定ファイルのポート",
			port:     "",
			extra:    "server:\n  port: \"9100\"\n",
			wantPort: ":9100",
		},
		{
			name:     "正常系: 引数が設定ファイルより優先",
			port:     "9200",
			extra:    "server:\n  port: \"9100\"\n",
			wantPort: ":9200",
		},
		{
			name:     "境界値: 最小ポート",
			port:     "1",
			wantPort: ":1",
		},
		{
			name:     "境界値: 最大ポート",
			port:     "65535",
			wantPort: ":65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := NewApp(&AppConfig{
				ConfigPath: writeConfig(t, tt.extra),
				Port:       tt.port,
			})
			if err != nil {
				t.Fatalf("NewApp() error = %v", err)
			}
			defer func() { _ = app.container.Close() }()

			if app.config == nil || app.container == nil || app.server == nil {
				t.Fatal("app is not fully initialized")
			}

			if app.server.Addr != tt.wantPort {
				t.Errorf("server.Addr = %v, want %v", app.server.Addr, tt.wantPort)
			}

			// タイムアウト設定の検証
			if app.server.ReadTimeout != 30*time.Second {
				t.Errorf("ReadTimeout = %v, want 30s", app.server.ReadTimeout)
			}
			if app.server.WriteTimeout != 30*time.Second {
				t.Errorf("WriteTimeout = %v, want 30s", app.server.WriteTimeout)
			}
			if app.server.IdleTimeout != 60*time.Second {
				t.Errorf("IdleTimeout = %v, want 60s", app.server.IdleTimeout)
			}

			if app.server.Handler == nil {
				t.Error("server.Handler is nil")
			}
		})
	}
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("異常系: 無効なYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("invalid: yaml: [[["), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := NewApp(&AppConfig{ConfigPath: path}); err == nil {
			t.Error("Expected error for invalid config")
		}
	})

	t.Run("異常系: モデルが見つからない", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := fmt.Sprintf("model:\n  vectorizer_path: %q\n  classifier_path: %q\n",
			filepath.Join(dir, "missing-vectorizer.msgpack"), filepath.Join(dir, "missing-model.msgpack"))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := NewApp(&AppConfig{ConfigPath: path})
		if !errors.Is(err, sharedModel.ErrArtifactLoad) {
			t.Errorf("error = %v, want ErrArtifactLoad", err)
		}
	})
}

// TestApp_Shutdown Shutdownの動作確認（サーバー起動なし）
func TestApp_Shutdown(t *testing.T) {
	tests := []struct {
		name        string
		shutdownErr error
		wantErr     bool
	}{
		{
			name:    "正常系: シャットダウン成功",
			wantErr: false,
		},
		{
			name:        "異常系: シャットダウン失敗",
			shutdownErr: context.DeadlineExceeded,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, "8080")
			app.serverSeam = &MockServer{
				shutdownFunc: func(ctx context.Context) error {
					return tt.shutdownErr
				},
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := app.Shutdown(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Shutdown() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestApp_Start_WithMock モックを使用したStartのテスト
func TestApp_Start_WithMock(t *testing.T) {
	tests := []struct {
		name    string
		mockErr error
		wantErr bool
	}{
		{
			name:    "正常系: 起動成功",
			mockErr: nil,
			wantErr: false,
		},
		{
			name:    "異常系: 起動失敗",
			mockErr: context.DeadlineExceeded,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, "8080")
			app.serverSeam = &MockServer{
				listenAndServeFunc: func() error {
					return tt.mockErr
				},
			}

			err := app.Start()
			if (err != nil) != tt.wantErr {
				t.Errorf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestApp_Run_WithMock モックを使用したRunのテスト
func TestApp_Run_WithMock(t *testing.T) {
	t.Run("異常系: 起動失敗で終了", func(t *testing.T) {
		app := newTestApp(t, "8080")
		app.serverSeam = &MockServer{
			listenAndServeFunc: func() error {
				return errors.New("address already in use")
			},
		}

		done := make(chan error, 1)
		go func() {
			done <- app.Run()
		}()

		select {
		case err := <-done:
			if err == nil {
				t.Error("Expected error from Run()")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run() did not return within timeout")
		}
	})

	t.Run("正常系: シグナル受信でシャットダウン", func(t *testing.T) {
		app := newTestApp(t, "8080")

		started := make(chan struct{})
		shutdownCalled := false
		app.serverSeam = &MockServer{
			listenAndServeFunc: func() error {
				close(started)
				return nil
			},
			shutdownFunc: func(ctx context.Context) error {
				shutdownCalled = true
				return nil
			},
		}

		done := make(chan error, 1)
		go func() {
			done <- app.Run()
		}()

		<-started
		// signal.Notifyの登録を待ってからシグナルを送信
		time.Sleep(200 * time.Millisecond)
		proc, _ := os.FindProcess(os.Getpid())
		_ = proc.Signal(os.Interrupt)

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run() did not return within timeout")
		}

		if !shutdownCalled {
			t.Error("Shutdown was not called")
		}
	})
}

// TestApp_PrintStartupMessage 起動メッセージのテスト
func TestApp_PrintStartupMessage(t *testing.T) {
	app := newTestApp(t, "8080")

	// panicしないことを確認
	app.printStartupMessage()
}
