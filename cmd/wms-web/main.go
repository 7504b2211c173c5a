package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/config"
	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/shared/kvstore"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/handler"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/repository"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting wms-web service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("api_base_url", cfg.API.BaseURL),
	)

	// 偏好设置库可选，连不上时页面使用默认偏好
	var prefRepo *repository.PreferenceRepository
	if cfg.Database.DBName != "" {
		db, err := initDatabase(cfg.Database)
		if err != nil {
			zapLogger.Warn("Database unavailable, preferences fall back to defaults", zap.Error(err))
		} else {
			if err := entity.AutoMigrate(db); err != nil {
				zapLogger.Warn("AutoMigrate preference tables warning", zap.Error(err))
			}
			prefRepo = repository.NewPreferenceRepository(db)
		}
	}

	// 会话和订单草稿存储，Redis 不可用时退化为进程内存储
	var store kvstore.Store
	rdb := initRedis(cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		zapLogger.Warn("Redis unavailable, using in-memory session store", zap.Error(err))
		store = kvstore.NewMemoryStore()
		rdb.Close()
	} else {
		store = kvstore.NewRedisStore(rdb)
		defer rdb.Close()
	}
	cancelPing()

	// 订单 PDF 归档（可选）
	var archive *minio.Client
	if cfg.MinIO.Endpoint != "" {
		archive, err = initMinIO(cfg.MinIO)
		if err != nil {
			zapLogger.Warn("MinIO unavailable, order PDFs will not be archived", zap.Error(err))
			archive = nil
		}
	}

	pol, err := policy.New()
	if err != nil {
		zapLogger.Fatal("Failed to build role policy", zap.Error(err))
	}

	api := apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout, zapLogger)
	sessions := session.NewManager(store, cfg.Session.TTL, zapLogger)
	services := service.NewServices(service.Deps{
		API:           api,
		Policy:        pol,
		Drafts:        orderflow.NewDraftStore(store, cfg.Session.DraftTTL),
		Preferences:   prefRepo,
		Archive:       archive,
		ArchiveBucket: cfg.MinIO.Bucket,
		Logger:        zapLogger,
	})
	handlers := handler.NewHandlers(services, sessions, pol, cfg, zapLogger)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, sessions, pol, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinIO(cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return client, nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, mgr *session.Manager, pol *policy.Policy, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	handler.RegisterRoutes(r, h, mgr, pol, cfg.Session.CookieName)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": 40400, "success": false, "message": "Not found"})
	})
}
