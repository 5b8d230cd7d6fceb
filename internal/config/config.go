package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config アプリケーション全体の設定
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Model      ModelConfig      `yaml:"model"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Redis      RedisConfig      `yaml:"redis"`
	MySQL      MySQLConfig      `yaml:"mysql"`
	Article    ArticleConfig    `yaml:"article"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig HTTPサーバーの設定
type ServerConfig struct {
	Port string `yaml:"port"`
}

// ModelConfig 学習済みモデルの設定
type ModelConfig struct {
	VectorizerPath string `yaml:"vectorizer_path"`
	ClassifierPath string `yaml:"classifier_path"`
}

// NormalizerConfig テキスト正規化の設定
type NormalizerConfig struct {
	// MarkupFirst URL・タグの除去を記号置換より前に行う（学習時の順序とは異なる）
	MarkupFirst bool `yaml:"markup_first"`
}

// RedisConfig Redisの設定
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// MySQLConfig MySQLの設定
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ArticleConfig 記事取得の設定
type ArticleConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes"`
}

// LoggingConfig ログ出力の設定
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load 設定ファイルを読み込む
// ファイルに書かれていない項目はデフォルト値のまま残る。
func Load(configPath string) (*Config, error) {
	// 設定ファイルが存在しない場合はデフォルト設定を返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 環境変数の展開
	dataStr := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(dataStr), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig デフォルト設定を返す
func DefaultConfig() *Config {
	// Redis/MySQLのホストはテスト環境では localhost を使用
	redisHost := "redis"
	mysqlHost := "mysql"
	if os.Getenv("GO_ENV") == "test" {
		redisHost = "localhost"
		mysqlHost = "localhost"
	}

	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Model: ModelConfig{
			VectorizerPath: "artifacts/vectorizer.json",
			ClassifierPath: "artifacts/model.json",
		},
		Normalizer: NormalizerConfig{
			MarkupFirst: false,
		},
		Redis: RedisConfig{
			Enabled:  false,
			Host:     redisHost,
			Port:     6379,
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		MySQL: MySQLConfig{
			Enabled:  false,
			Host:     mysqlHost,
			Port:     3306,
			User:     "root",
			Password: os.Getenv("MYSQL_ROOT_PASSWORD"),
			Database: "news_detector",
		},
		Article: ArticleConfig{
			Timeout:   15 * time.Second,
			UserAgent: "news-detector/1.0",
			MaxBytes:  5 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate 設定値を検証
func (c *Config) Validate() error {
	if c.Model.VectorizerPath == "" {
		return fmt.Errorf("model.vectorizer_path is required")
	}
	if c.Model.ClassifierPath == "" {
		return fmt.Errorf("model.classifier_path is required")
	}
	if c.Redis.Enabled && c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported logging.format: %s", c.Logging.Format)
	}
	return nil
}

// Save 設定をファイルに保存する
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
