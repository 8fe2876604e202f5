package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"promptnodes/internal/config"
	"promptnodes/internal/node"
	"promptnodes/internal/preset"
	"promptnodes/internal/server"
	"promptnodes/internal/tools"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logFile, err := config.InitLogging(logrus.StandardLogger(), cfg)
	if err != nil {
		logrus.Fatalf("初始化日志失败: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	log := logrus.WithField("component", "prompt-nodes")

	// 加载节点
	registry := node.LoadDefault(preset.DirFS(cfg.PresetsDir),
		node.WithDefaultLanguage(cfg.DefaultLanguage),
		node.WithResolverMode(cfg.ResolutionMode),
		node.WithLogger(logrus.WithField("component", "node")),
	)
	registry.LogLoaded(log, cfg.DefaultLanguage)

	// 初始化工具
	promptTools := tools.NewPromptTools(registry, cfg.DefaultLanguage)

	// 初始化Gin路由
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(registry, promptTools, cfg.DefaultLanguage, logrus.WithField("component", "http")).Router(),
	}

	// 在goroutine中启动服务器
	go func() {
		log.Infof("服务器启动在 %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("关闭服务器...")

	if err := srv.Close(); err != nil {
		log.Errorf("服务器关闭失败: %v", err)
		return
	}
	log.Info("服务器已关闭")
}
