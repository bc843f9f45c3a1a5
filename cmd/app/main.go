package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"problem-tracker/internal/config"
	"problem-tracker/internal/i18n"
	"problem-tracker/internal/repository"
	"problem-tracker/internal/router"
	"problem-tracker/internal/service"
	"problem-tracker/pkg/logging"
)

func initConfig() *config.Config {
	path := flag.String("config", os.Getenv("TRACKER_CONFIG"), "path to config file (default ./config.yaml)")
	flag.Parse()

	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s (working dir %s)", *path, wd)

	cfg, err := config.Load(viper.GetViper(), *path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func startCron(cfg config.CronConfig) *cron.Cron {
	if !cfg.Enabled {
		logging.Logger.Info("Summary cron disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Summary, func() {
		if err := service.StatisticalData(); err != nil {
			logging.Logger.Error("Failed to build summary via cron job", zap.Error(err))
		}
	})
	if err != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.String("schedule", cfg.Summary), zap.Error(err))
	}

	c.Start()
	logging.Logger.Info("Summary cron started", zap.String("schedule", cfg.Summary))
	return c
}

func startServer(r *gin.Engine, addr string, c *cron.Cron) {
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if c != nil {
		<-c.Stop().Done()
	}
	repository.CloseRedis()

	logging.Logger.Info("Server exiting")
	_ = logging.Logger.Sync()
}

func main() {
	cfg := initConfig()

	logging.InitLogger(cfg.Log)
	logging.Logger.Info("Application started")

	repository.InitStore(cfg.Data)
	repository.InitRedis(cfg.Redis)

	// 初始化 i18n（加载 TOML 文件）
	bundle, err := i18n.InitI18n(i18n.FilePaths(cfg.I18n.Dir, cfg.I18n.Languages), cfg.I18n.Default)
	if err != nil {
		logging.Logger.Fatal("Failed to initialize i18n", zap.Error(err))
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.Setup(router.Options{
		Bundle:      bundle,
		DefaultLang: cfg.I18n.Default,
		AllowOrigin: cfg.Server.AllowOrigin,
	})

	c := startCron(cfg.Cron)
	startServer(r, cfg.Server.Addr, c)
}
