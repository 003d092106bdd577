package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 读数接入指标
	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeradar_readings_ingested_total",
			Help: "接入的读数总量",
		},
		[]string{"source"}, // source: http, nats
	)

	// 告警评估指标
	AlertsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeradar_alerts_triggered_total",
			Help: "触发的告警总量",
		},
		[]string{"level"},
	)

	EvaluationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homeradar_evaluation_failures_total",
			Help: "评估过程中单条规则失败的次数",
		},
	)

	// 规则缓存指标
	RuleCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homeradar_rule_cache_hits_total",
			Help: "规则缓存命中次数",
		},
	)

	RuleCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homeradar_rule_cache_misses_total",
			Help: "规则缓存未命中次数",
		},
	)

	// 实时通知指标
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeradar_notifications_published_total",
			Help: "实时通知推送次数",
		},
		[]string{"status"}, // status: success, failed, skipped
	)
)
