// pkg/engine/pipeline.go
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"HomeRadar/pkg/metrics"
	"HomeRadar/pkg/model"
)

// Store 告警引擎所需的持久化能力
type Store interface {
	// FindMetricWithOwner 查询指标摘要，指标不存在时返回 (nil, nil)
	FindMetricWithOwner(ctx context.Context, metricID string) (*model.MetricInfo, error)
	// CreateAlert 持久化一条告警
	CreateAlert(ctx context.Context, alert *model.Alert) error
}

// RuleSource 指标告警规则的获取能力，由规则缓存实现
type RuleSource interface {
	GetRules(ctx context.Context, metricID string) ([]model.AlertRule, error)
}

// AlertEngine 告警评估管道
// 每条落库读数同步调用一次 Evaluate；所有依赖显式注入，便于用假实现替换测试
type AlertEngine struct {
	store      Store
	rules      RuleSource
	dispatcher *Dispatcher
	log        zerolog.Logger
}

// NewAlertEngine 创建告警评估管道
func NewAlertEngine(store Store, rules RuleSource, log zerolog.Logger) *AlertEngine {
	return &AlertEngine{
		store:      store,
		rules:      rules,
		dispatcher: NewDispatcher(store, log),
		log:        log,
	}
}

// Evaluate 评估一条读数触发的全部规则
// 绝不向调用方返回错误：内部失败记日志后降级（少一条告警/少一次推送），
// 不能让批量读数接入因为告警环节出问题而整体失败。
// notifier 为 nil 是合法配置（如批量回灌场景不接实时通道），此时不做任何推送。
func (e *AlertEngine) Evaluate(ctx context.Context, reading *model.Reading, notifier Notifier) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Interface("panic", r).
				Str("reading_id", reading.ID).
				Msg("告警评估发生panic，本条读数评估终止")
		}
	}()

	// 解析指标及设备归属，指标不存在时静默结束
	info, err := e.store.FindMetricWithOwner(ctx, reading.MetricID)
	if err != nil {
		e.log.Error().Err(err).Str("reading_id", reading.ID).Msg("解析读数指标失败")
		return
	}
	if info == nil {
		return
	}

	// 经规则缓存获取候选规则
	rules, err := e.rules.GetRules(ctx, reading.MetricID)
	if err != nil {
		e.log.Error().Err(err).Str("reading_id", reading.ID).Msg("获取告警规则失败")
		return
	}

	// 按缓存返回顺序逐条评估，同一读数可触发多条规则各自产生告警
	for _, rule := range rules {
		if !EvaluateCondition(reading.Value, rule.Condition, rule.Threshold) {
			continue
		}

		message := RenderMessage(rule.MessageTemplate, info.Name, reading.Value, rule.Threshold)

		readingID := reading.ID
		alert := &model.Alert{
			MetricID:  reading.MetricID,
			ReadingID: &readingID,
			Level:     rule.Level,
			Status:    model.AlertStatusNew,
			Threshold: rule.Threshold, // 触发时刻的阈值快照
			Message:   message,
		}

		// 单条规则落库失败不影响其余规则
		if err := e.store.CreateAlert(ctx, alert); err != nil {
			metrics.EvaluationFailures.Inc()
			e.log.Error().Err(err).
				Str("reading_id", reading.ID).
				Str("rule_id", rule.ID).
				Msg("保存告警失败，继续评估剩余规则")
			continue
		}
		metrics.AlertsTriggered.WithLabelValues(string(rule.Level)).Inc()

		// 先落库再推送，通道不可用只丢实时性
		if notifier != nil {
			e.dispatcher.Notify(ctx, alert, notifier)
		}
	}
}
