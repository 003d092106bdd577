// pkg/scheduler/task.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"HomeRadar/pkg/database"
	"HomeRadar/pkg/monitor"
)

// Scheduler 后台任务调度器
type Scheduler struct {
	cron          *cron.Cron
	db            *database.Postgres
	monitor       *monitor.Monitor
	retentionDays int
	log           zerolog.Logger
}

// NewScheduler 创建任务调度器
func NewScheduler(db *database.Postgres, mon *monitor.Monitor, retentionDays int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		db:            db,
		monitor:       mon,
		retentionDays: retentionDays,
		log:           log,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() {
	// 每日凌晨清理过期的已关闭告警
	s.cron.AddFunc("0 3 * * *", s.purgeClosedAlerts)

	// 每5分钟探测组件健康状态
	s.cron.AddFunc("@every 5m", s.checkComponentHealth)

	s.cron.Start()
	s.log.Info().Int("retention_days", s.retentionDays).Msg("调度器已启动")
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// purgeClosedAlerts 清理保留期之外的已关闭告警
func (s *Scheduler) purgeClosedAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	before := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.db.Alerts().DeleteClosedBefore(ctx, before)
	if err != nil {
		s.log.Error().Err(err).Msg("清理历史告警失败")
		return
	}
	s.log.Info().Int64("deleted", deleted).Time("before", before).Msg("清理历史告警完成")
}

// checkComponentHealth 探测各组件健康状态
func (s *Scheduler) checkComponentHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.monitor.CheckAll(ctx)
}
