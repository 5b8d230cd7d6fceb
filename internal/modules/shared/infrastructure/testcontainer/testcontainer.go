package testcontainer

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"news-detector-app/internal/config"
)

// RedisContainer Redisコンテナのラッパー
type RedisContainer struct {
	Container *rediscontainer.RedisContainer
	Host      string
	Port      int
}

// MySQLContainer MySQLコンテナのラッパー
type MySQLContainer struct {
	Container *mysql.MySQLContainer
	Host      string
	Port      int
	Database  string
	User      string
	Password  string
}

// StartRedis Redisコンテナを起動
// 終了時の停止は t.Cleanup に登録する。
func StartRedis(ctx context.Context, t testing.TB) *RedisContainer {
	t.Helper()

	container, err := rediscontainer.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("redis container is not available: %v", err)
	}

	rc := &RedisContainer{Container: container}
	t.Cleanup(func() { _ = rc.Close(context.Background()) })

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get redis port: %v", err)
	}
	rc.Host, rc.Port = endpoint(ctx, t, container, port.Port())
	return rc
}

// StartMySQL MySQLコンテナを起動
func StartMySQL(ctx context.Context, t testing.TB) *MySQLContainer {
	t.Helper()

	const (
		database = "news_detector_test"
		user     = "testuser"
		password = "testpass"
	)

	container, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase(database),
		mysql.WithUsername(user),
		mysql.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("mysql container is not available: %v", err)
	}

	mc := &MySQLContainer{
		Container: container,
		Database:  database,
		User:      user,
		Password:  password,
	}
	t.Cleanup(func() { _ = mc.Close(context.Background()) })

	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("failed to get mysql port: %v", err)
	}
	mc.Host, mc.Port = endpoint(ctx, t, container, port.Port())
	return mc
}

func endpoint(ctx context.Context, t testing.TB, c testcontainers.Container, mappedPort string) (string, int) {
	t.Helper()

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	n, err := strconv.Atoi(mappedPort)
	if err != nil {
		t.Fatalf("failed to parse mapped port %q: %v", mappedPort, err)
	}
	return host, n
}

// Close Redisコンテナを停止
func (r *RedisContainer) Close(ctx context.Context) error {
	if r.Container != nil {
		return r.Container.Terminate(ctx)
	}
	return nil
}

// Close MySQLコンテナを停止
func (m *MySQLContainer) Close(ctx context.Context) error {
	if m.Container != nil {
		return m.Container.Terminate(ctx)
	}
	return nil
}

// Config アプリケーション設定としての接続情報
func (r *RedisContainer) Config() *config.RedisConfig {
	return &config.RedisConfig{
		Enabled: true,
		Host:    r.Host,
		Port:    r.Port,
		TTL:     time.Hour,
	}
}

// Config アプリケーション設定としての接続情報
func (m *MySQLContainer) Config() *config.MySQLConfig {
	return &config.MySQLConfig{
		Enabled:  true,
		Host:     m.Host,
		Port:     m.Port,
		User:     m.User,
		Password: m.Password,
		Database: m.Database,
	}
}

// ConnectionString MySQL接続文字列を取得
func (m *MySQLContainer) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		m.User, m.Password, m.Host, m.Port, m.Database)
}
