package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snap-pantry/internal/api"
	"snap-pantry/internal/api/handlers"
	"snap-pantry/internal/api/handlers/health"
	"snap-pantry/internal/core/ai/cache"
	"snap-pantry/internal/core/ai/mistral"
	"snap-pantry/internal/core/ai/vision"
	"snap-pantry/internal/core/expiration"
	"snap-pantry/internal/core/food"
	"snap-pantry/internal/core/image"
	"snap-pantry/internal/core/imagestore"
	"snap-pantry/internal/core/pantry"
	"snap-pantry/internal/core/queue"
	"snap-pantry/internal/core/recipe"
	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/infrastructure/storage"
	"snap-pantry/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("mistral_api_key", config.MaskAPIKey(cfg.Mistral.APIKey)),
		zap.String("mistral_model", cfg.Mistral.Model),
		zap.String("vision_api_key", config.MaskAPIKey(cfg.Vision.APIKey)),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("image_store_driver", cfg.ImageStore.Driver),
	)

	// 本地鍵值儲存
	store, err := storage.New(cfg.Storage)
	if err != nil {
		common.LogFatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	// 照片儲存
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	photos, err := imagestore.New(initCtx, cfg.ImageStore)
	cancelInit()
	if err != nil {
		common.LogFatal("Failed to initialize image store", zap.Error(err))
	}

	// 快取，關閉時為 nil
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	// 寫入隊列
	writeQueue := queue.NewManager(cfg.Queue.MaxSize)
	defer writeQueue.Close()

	// 外部服務
	chat := mistral.NewClient(cfg.Mistral)
	defer chat.Close()
	annotator := vision.NewClient(cfg.Vision, cacheManager)

	// 領域服務
	predictor := expiration.NewPredictor(chat, cacheManager)
	pantrySvc := pantry.NewService(store, writeQueue, predictor)
	recipeSvc := recipe.NewGenerator(chat, pantrySvc, store)

	h := handlers.NewHandler(handlers.Deps{
		Images:     image.NewService(cfg.Image),
		ImageStore: photos,
		Vision:     annotator,
		Extractor:  food.NewExtractor(),
		Pantry:     pantrySvc,
		Expiration: predictor,
		Recipes:    recipeSvc,
	})
	hc := health.NewHandler(cfg.App.Version, store, writeQueue, cacheManager)

	router := api.SetupRouter(cfg, h, hc)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
