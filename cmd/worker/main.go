package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HomeRadar/pkg/cache"
	"HomeRadar/pkg/config"
	"HomeRadar/pkg/database"
	"HomeRadar/pkg/engine"
	"HomeRadar/pkg/logger"
	"HomeRadar/pkg/messaging"
	"HomeRadar/pkg/metrics"
	"HomeRadar/pkg/model"
)

// readingMessage 网关经NATS上报的读数载荷
type readingMessage struct {
	MetricID  string     `json:"metric_id"`
	Value     float64    `json:"value"`
	Timestamp *time.Time `json:"timestamp"`
}

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Init("info")
		logger.Logger.Fatal().Err(err).Msg("加载配置失败")
	}

	logger.Init(cfg.Log.Level)
	log := logger.WithComponent("worker-main")
	log.Info().Str("env", cfg.App.Env).Msg("启动读数消费Worker...")

	// 连接数据库
	db, err := database.NewPostgres(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("连接数据库失败")
	}
	defer db.Close()

	// 连接Redis
	redisStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("连接Redis失败")
	}
	defer redisStore.Close()

	// 连接NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("连接NATS失败")
	}
	defer natsClient.Close()

	// 组装规则缓存与告警引擎
	ruleCache := cache.NewRuleCache(redisStore, db, cfg.RuleCacheTTL(), logger.WithComponent("rulecache"))
	alertEngine := engine.NewAlertEngine(db, ruleCache, logger.WithComponent("engine"))

	// 订阅读数流，回灌路径不接实时通道，评估时不做推送
	err = natsClient.Subscribe(
		messaging.ReadingsStream,
		"homeradar-reading-worker",
		messaging.ReadingsSubject,
		func(data []byte) error {
			var msg readingMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				return fmt.Errorf("解析读数消息失败: %w", err)
			}
			if msg.MetricID == "" {
				return fmt.Errorf("读数消息缺少metric_id")
			}

			reading := &model.Reading{
				MetricID: msg.MetricID,
				Value:    msg.Value,
			}
			if msg.Timestamp != nil {
				reading.Timestamp = *msg.Timestamp
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := db.Readings().Create(ctx, reading); err != nil {
				return err
			}
			metrics.ReadingsIngested.WithLabelValues("nats").Inc()

			alertEngine.Evaluate(ctx, reading, nil)
			return nil
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("订阅读数流失败")
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Worker正在退出...")
}
