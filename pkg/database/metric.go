// pkg/database/metric.go
package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"HomeRadar/pkg/model"
)

type MetricDB struct {
	db *gorm.DB
}

// GetWithOwner 查询指标及其设备归属用户，指标不存在时返回 (nil, nil)
func (m *MetricDB) GetWithOwner(ctx context.Context, metricID string) (*model.MetricInfo, error) {
	var info model.MetricInfo
	err := m.db.WithContext(ctx).
		Table("metrics").
		Select("metrics.id AS id, metrics.name AS name, COALESCE(devices.user_id::text, '') AS device_owner_id").
		Joins("LEFT JOIN devices ON devices.id = metrics.device_id").
		Where("metrics.id = ?", metricID).
		Take(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询指标失败: %w", err)
	}
	return &info, nil
}

func (m *MetricDB) GetByID(ctx context.Context, metricID string) (*model.Metric, error) {
	var metric model.Metric
	err := m.db.WithContext(ctx).First(&metric, "id = ?", metricID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询指标失败: %w", err)
	}
	return &metric, nil
}
