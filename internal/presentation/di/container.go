package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"news-detector-app/internal/config"
	"news-detector-app/internal/modules/detection/domain"
	detectionHandler "news-detector-app/internal/modules/detection/presentation/handler"
	detectionUsecase "news-detector-app/internal/modules/detection/usecase"
	sharedArticle "news-detector-app/internal/modules/shared/infrastructure/article"
	sharedCache "news-detector-app/internal/modules/shared/infrastructure/cache"
	sharedDB "news-detector-app/internal/modules/shared/infrastructure/database"
	sharedModel "news-detector-app/internal/modules/shared/infrastructure/model"
	httpHandler "news-detector-app/internal/presentation/http/handler"
	"news-detector-app/web"
)

// Version アプリケーションのバージョン
const Version = "1.0.0"

// スキーマ作成のタイムアウト
const schemaTimeout = 30 * time.Second

// Container DIコンテナ
type Container struct {
	// Shared Infrastructure
	bundle       *sharedModel.Bundle
	cacheRepo    *sharedCache.RedisRepository
	analysisRepo *sharedDB.BunAnalysisRepository
	outcomeCache *sharedCache.OutcomeCache
	fetcher      *sharedArticle.Fetcher

	// Detection Module
	detectionUseCase *detectionUsecase.DetectionUseCase
	historyUseCase   *detectionUsecase.HistoryUseCase
	newsHandler      *detectionHandler.NewsHandler
	webHandler       *detectionHandler.WebHandler

	healthHandler *httpHandler.HealthHandler
}

// NewContainer 新しいContainerを作成
// Redis と MySQL は設定で有効な場合のみ接続する。
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := slog.Default()
	container := &Container{}

	// Shared Infrastructure: Model
	bundle, err := sharedModel.Load(&cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	container.bundle = bundle
	logger.Info("model loaded", "model", bundle.Name)

	// Shared Infrastructure: Cache Repository
	if cfg.Redis.Enabled {
		cacheRepo, err := sharedCache.NewRedisRepository(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache repository: %w", err)
		}
		container.cacheRepo = cacheRepo
		container.outcomeCache = sharedCache.NewOutcomeCache(cacheRepo, cfg.Redis.TTL, logger)
	}

	// Shared Infrastructure: Analysis Repository
	if cfg.MySQL.Enabled {
		analysisRepo, err := sharedDB.NewBunAnalysisRepository(&cfg.MySQL)
		if err != nil {
			return nil, errors.Join(
				fmt.Errorf("failed to initialize analysis repository: %w", err),
				container.Close(),
			)
		}
		container.analysisRepo = analysisRepo

		ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
		defer cancel()
		if err := analysisRepo.EnsureSchema(ctx); err != nil {
			return nil, errors.Join(
				fmt.Errorf("failed to prepare analysis schema: %w", err),
				container.Close(),
			)
		}
		container.historyUseCase = detectionUsecase.NewHistoryUseCase(analysisRepo)
	}

	// Shared Infrastructure: Article Fetcher
	container.fetcher = sharedArticle.NewFetcher(&cfg.Article, nil)

	// Detection Module: UseCase
	deps := detectionUsecase.DetectionDeps{
		Normalizer: domain.NewNormalizer(domain.WithMarkupFirst(cfg.Normalizer.MarkupFirst)),
		Vectorizer: bundle.Vectorizer,
		Classifier: bundle.Classifier,
		ModelName:  bundle.Name,
		Fetcher:    container.fetcher,
		Logger:     logger,
	}
	if container.historyUseCase != nil {
		deps.Recorder = container.historyUseCase
	}
	container.detectionUseCase = detectionUsecase.NewDetectionUseCase(deps)

	// Detection Module: Handlers
	// 無効な依存は型付きnilにならないようインターフェースのnilで渡す
	var history detectionHandler.HistoryUseCaseInterface
	if container.historyUseCase != nil {
		history = container.historyUseCase
	}
	var cache detectionHandler.OutcomeCacheInterface
	if container.outcomeCache != nil {
		cache = container.outcomeCache
	}

	container.newsHandler = detectionHandler.NewNewsHandler(container.detectionUseCase, history, cache, logger)

	webHandler, err := detectionHandler.NewWebHandler(container.detectionUseCase, history, web.FS, logger)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to initialize web handler: %w", err),
			container.Close(),
		)
	}
	container.webHandler = webHandler

	// Health Check
	components := map[string]httpHandler.Pinger{"cache": nil, "history": nil}
	if container.cacheRepo != nil {
		components["cache"] = container.cacheRepo
	}
	if container.analysisRepo != nil {
		components["history"] = container.analysisRepo
	}
	container.healthHandler = httpHandler.NewHealthHandler(Version, bundle.Name, components)

	return container, nil
}

// DetectionUseCase 判定ユースケースを取得
func (c *Container) DetectionUseCase() *detectionUsecase.DetectionUseCase {
	return c.detectionUseCase
}

// HistoryUseCase 解析履歴ユースケースを取得（無効な場合はnil）
func (c *Container) HistoryUseCase() *detectionUsecase.HistoryUseCase {
	return c.historyUseCase
}

// NewsHandler 判定APIハンドラーを取得
func (c *Container) NewsHandler() *detectionHandler.NewsHandler {
	return c.newsHandler
}

// WebHandler Web UIハンドラーを取得
func (c *Container) WebHandler() *detectionHandler.WebHandler {
	return c.webHandler
}

// HealthHandler ヘルスチェックハンドラーを取得
func (c *Container) HealthHandler() *httpHandler.HealthHandler {
	return c.healthHandler
}

// ModelName 読み込んだモデルの表示名
func (c *Container) ModelName() string {
	return c.bundle.Name
}

// Close リソースをクローズ
func (c *Container) Close() error {
	var errs []error

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache repository: %w", err))
		}
		c.cacheRepo = nil
	}

	if c.analysisRepo != nil {
		if err := c.analysisRepo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close analysis repository: %w", err))
		}
		c.analysisRepo = nil
	}

	return errors.Join(errs...)
}
