package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Dext-Stats/config"
	"Dext-Stats/middleware"
	"Dext-Stats/module/statistics"
	"Dext-Stats/utils"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动统计 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, repo, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.DB.Close()
	log := utils.Logger()

	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return config.ErrMissingSecret
	}

	// 初始化 Redis 客户端
	if err := config.InitRedis(cfg.Redis); err != nil {
		return err
	}
	cache := statistics.NewRedisCache(config.RedisClient, cfg.Stats.CacheTTL)
	if cache == nil {
		log.Info("未启用 Redis，报告缓存已关闭")
	}

	builder := statistics.NewReportBuilder(statistics.NewRegistry(), cfg.Stats.Workers)
	statistics.InitService(statistics.NewService(repo, repo, builder, cache))
	log.Info("统计服务已初始化", zap.Int("workers", cfg.Stats.Workers))

	limiters := middleware.NewLimiterStore(cfg.RateLimit.Limit, cfg.RateLimit.Burst)
	scheduler, err := startMaintenanceScheduler(cfg.Stats.CachePurgeCron, cache, limiters)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 设置可信代理
	if err := router.SetTrustedProxies(cfg.LoadTrustedProxies()); err != nil {
		return err
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.AccessLogMiddleware(),
		middleware.CorsMiddleware(cfg.CorsOrigins, !cfg.IsProduction()),
		middleware.SecurityHeadersMiddleware(cfg.IsProduction()),
		middleware.RateLimitMiddleware(limiters),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	secret := ""
	if cfg.Auth.Enabled {
		secret = cfg.Auth.JWTSecret
	}
	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.AuthMiddleware(secret))
	{
		apiGroup.POST("/statistics/:surveyId", statistics.GetStatisticsHandler)
	}

	return startHTTPServer(router, cfg.Port)
}

// startMaintenanceScheduler 定时清理报告缓存与闲置限流器
func startMaintenanceScheduler(cronExpr string, cache statistics.ReportCache, limiters *middleware.LimiterStore) (*cron.Cron, error) {
	log := utils.Logger()
	c := cron.New()

	_, err := c.AddFunc(cronExpr, func() {
		n := limiters.Cleanup(2 * time.Hour)
		if n > 0 {
			log.Info("已清理闲置限流器", zap.Int("count", n))
		}

		if cache == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		purged, err := cache.Purge(ctx)
		if err != nil {
			log.Error("清理报告缓存失败", zap.Error(err))
			return
		}
		log.Info("报告缓存清理完成", zap.Int("count", purged))
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("维护计划任务已启动", zap.String("cron", cronExpr))
	return c, nil
}

// startHTTPServer 启动HTTP服务器并阻塞到收到退出信号
func startHTTPServer(router *gin.Engine, port string) error {
	log := utils.Logger()
	log.Info("启动HTTP服务器", zap.String("port", port))

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // 大问卷统计耗时较长
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return gracefulShutdown(server, errCh)
}

// gracefulShutdown 优雅关闭服务器
func gracefulShutdown(server *http.Server, errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-quit:
	}

	utils.Logger().Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	utils.Logger().Info("服务器已关闭")
	return nil
}
