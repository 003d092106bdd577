// pkg/engine/dispatcher.go
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"HomeRadar/pkg/metrics"
	"HomeRadar/pkg/model"
)

// 实时通知事件名
const notifyEvent = "new_alert"

// UserSubject 用户实时通道的主题名
func UserSubject(ownerID string) string {
	return "alerts.user." + ownerID
}

// Notifier 实时通知通道能力，由NATS客户端实现
type Notifier interface {
	Publish(subject string, data interface{}) error
}

// alertEnvelope 推送到实时通道的载荷
type alertEnvelope struct {
	Event string       `json:"event"`
	Alert *model.Alert `json:"alert"`
}

// Dispatcher 告警实时推送分发器
// 推送是尽力而为的：告警先落库，通道瞬断只丢实时推送，告警仍可经查询路径获取
type Dispatcher struct {
	store Store
	log   zerolog.Logger
}

// NewDispatcher 创建分发器
func NewDispatcher(store Store, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{store: store, log: log}
}

// Notify 解析告警指标的设备归属用户并推送到其实时通道
// 无归属用户时静默跳过；推送失败只记日志，不向管道回传
func (d *Dispatcher) Notify(ctx context.Context, alert *model.Alert, notifier Notifier) {
	info, err := d.store.FindMetricWithOwner(ctx, alert.MetricID)
	if err != nil {
		d.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("解析告警归属用户失败，跳过实时推送")
		metrics.NotificationsPublished.WithLabelValues("failed").Inc()
		return
	}
	if info == nil || info.DeviceOwnerID == "" {
		metrics.NotificationsPublished.WithLabelValues("skipped").Inc()
		return
	}

	payload := alertEnvelope{Event: notifyEvent, Alert: alert}
	if err := notifier.Publish(UserSubject(info.DeviceOwnerID), payload); err != nil {
		d.log.Warn().Err(err).
			Str("alert_id", alert.ID).
			Str("owner_id", info.DeviceOwnerID).
			Msg("推送实时通知失败")
		metrics.NotificationsPublished.WithLabelValues("failed").Inc()
		return
	}
	metrics.NotificationsPublished.WithLabelValues("success").Inc()
}
