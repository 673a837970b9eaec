package main

import (
	"blogcms/internal/api"
	"blogcms/internal/cache"
	"blogcms/internal/config"
	"blogcms/internal/docstore"
	"blogcms/internal/logging"
	"blogcms/internal/model"
	"blogcms/internal/service"
	"blogcms/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger, logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logger.WithError(err).Error("failed to initialise repository")
		return
	}
	defer repo.Close()

	if err := model.SeedDefaultCategories(ctx, repo, cfg); err != nil {
		logger.WithError(err).Warn("failed to seed default categories")
	}

	contents := docstore.New(ctx, docstore.Options{
		URI:      cfg.MongoURI,
		Addr:     cfg.MongoAddr,
		User:     cfg.MongoUser,
		Password: cfg.MongoPassword,
		Database: cfg.MongoDB,
		Timeout:  cfg.MongoTimeout,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := contents.Close(closeCtx); err != nil {
			logger.WithError(err).Warn("failed to close document store")
		}
	}()
	if !contents.EnsureIndexes(ctx) {
		logger.Warn("content indexes not ensured, will rely on existing ones")
	}

	// 缓存可选，未配置时保持 nil 接口
	var blogCache service.Cache
	if cfg.CacheEnabled() {
		redisClient := cache.New(cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			Timeout:  cfg.RedisTimeout,
		})
		defer redisClient.Close()
		blogCache = redisClient
	}

	store, err := storage.New(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(api.Dependencies{
		Repo:           repo,
		Contents:       contents,
		Cache:          blogCache,
		Storage:        store,
		RequestTimeout: cfg.RequestTimeout(),
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialise http handler")
		return
	}

	reconciler := service.NewReconciler(repo, contents, blogCache, service.ReconcilerOptions{
		Interval: cfg.ReconcileInterval,
		Grace:    cfg.ReconcileGrace,
		Batch:    cfg.ReconcileBatch,
	})
	go reconciler.Run(ctx)

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	httpHandler.RegisterRoutes(r)

	if localProvider, ok := store.(storage.LocalDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout() + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("服务器关闭失败")
		}
	}()

	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
