package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"HomeRadar/pkg/logger"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建新的API服务器
func NewServer(port string, readTimeout, writeTimeout time.Duration) *Server {
	router := gin.New()

	// 设置中间件
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	// 健康检查
	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/ready", handlers.ReadinessCheck)

	// Prometheus指标
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 路由组
	v1 := s.router.Group("/api/v1")
	{
		// 读数接入接口
		v1.POST("/readings", handlers.IngestReading)
		v1.POST("/readings/batch", handlers.IngestReadingBatch)

		// 告警查询与状态流转接口
		v1.GET("/alerts", handlers.GetAlerts)
		v1.POST("/alerts/:id/ack", handlers.AcknowledgeAlert)
		v1.POST("/alerts/:id/close", handlers.CloseAlert)
	}
}

// Start 启动服务器并等待退出信号
func (s *Server) Start() {
	log := logger.WithComponent("api")

	// 在goroutine中启动服务器
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("API服务器启动")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")

	// 设置超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("服务器关闭失败")
	}

	log.Info().Msg("服务器已关闭")
}
