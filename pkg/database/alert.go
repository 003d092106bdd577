// pkg/database/alert.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"HomeRadar/pkg/model"
)

type AlertDB struct {
	db *gorm.DB
}

func (a *AlertDB) Create(ctx context.Context, alert *model.Alert) error {
	if err := a.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("保存告警失败: %w", err)
	}
	return nil
}

func (a *AlertDB) GetByID(ctx context.Context, alertID string) (*model.Alert, error) {
	var alert model.Alert
	err := a.db.WithContext(ctx).First(&alert, "id = ?", alertID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("告警不存在")
		}
		return nil, fmt.Errorf("查询告警失败: %w", err)
	}
	return &alert, nil
}

// GetByUser 查询归属某用户设备的告警
func (a *AlertDB) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Alert, error) {
	var alerts []*model.Alert
	err := a.db.WithContext(ctx).
		Joins("JOIN metrics ON metrics.id = alerts.metric_id").
		Joins("JOIN devices ON devices.id = metrics.device_id").
		Where("devices.user_id = ?", userID).
		Order("alerts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户告警失败: %w", err)
	}
	return alerts, nil
}

// UpdateStatus 执行告警状态迁移，非法迁移直接报错
func (a *AlertDB) UpdateStatus(ctx context.Context, alertID string, to model.AlertStatus) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alert model.Alert
		if err := tx.First(&alert, "id = ?", alertID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("告警不存在")
			}
			return fmt.Errorf("查询告警失败: %w", err)
		}

		if !model.CanTransition(alert.Status, to) {
			return fmt.Errorf("告警状态不允许从 %s 迁移到 %s", alert.Status, to)
		}

		if err := tx.Model(&alert).Update("status", to).Error; err != nil {
			return fmt.Errorf("更新告警状态失败: %w", err)
		}
		return nil
	})
}

// Acknowledge 确认告警
func (a *AlertDB) Acknowledge(ctx context.Context, alertID string) error {
	return a.UpdateStatus(ctx, alertID, model.AlertStatusAcknowledged)
}

// Close 关闭告警
func (a *AlertDB) Close(ctx context.Context, alertID string) error {
	return a.UpdateStatus(ctx, alertID, model.AlertStatusClosed)
}

// DeleteClosedBefore 清理早于指定时间的已关闭告警，返回删除条数
func (a *AlertDB) DeleteClosedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := a.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.AlertStatusClosed, before).
		Delete(&model.Alert{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理历史告警失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}
