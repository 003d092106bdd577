package main

import (
	"context"
	"errors"
	"os"

	"HomeRadar/pkg/api"
	"HomeRadar/pkg/cache"
	"HomeRadar/pkg/config"
	"HomeRadar/pkg/database"
	"HomeRadar/pkg/engine"
	"HomeRadar/pkg/logger"
	"HomeRadar/pkg/messaging"
	"HomeRadar/pkg/monitor"
	"HomeRadar/pkg/scheduler"
)

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
	log := logger.WithComponent("api-main")
	log.Info().Str("env", cfg.App.Env).Msg("启动API服务...")

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

	// 连接NATS，实时通道是可选能力，连接失败时降级为无推送运行
	var notifier engine.Notifier
	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Warn().Err(err).Msg("连接NATS失败，实时通知不可用")
	} else {
		notifier = natsClient
		defer natsClient.Close()
	}

	// 组装规则缓存与告警引擎
	ruleCache := cache.NewRuleCache(redisStore, db, cfg.RuleCacheTTL(), logger.WithComponent("rulecache"))
	alertEngine := engine.NewAlertEngine(db, ruleCache, logger.WithComponent("engine"))

	// 注册组件健康探测
	mon := monitor.NewMonitor(logger.WithComponent("monitor"))
	mon.RegisterComponent("postgres", db.Ping)
	mon.RegisterComponent("redis", redisStore.Ping)
	if natsClient != nil {
		mon.RegisterComponent("nats", func(ctx context.Context) error {
			if !natsClient.IsConnected() {
				return errors.New("NATS未连接")
			}
			return nil
		})
	}
	mon.CheckAll(context.Background())

	// 启动后台任务调度
	sched := scheduler.NewScheduler(db, mon, cfg.Alerting.RetentionDays, logger.WithComponent("scheduler"))
	sched.Start()
	defer sched.Stop()

	// 创建API处理程序并启动服务器
	handlers := api.NewHandlers(db, alertEngine, notifier, mon)
	server := api.NewServer(cfg.API.Port, cfg.APIReadTimeout(), cfg.APIWriteTimeout())
	server.SetupRoutes(handlers)
	server.Start()
}
