// pkg/database/reading.go
package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"HomeRadar/pkg/model"
)

type ReadingDB struct {
	db *gorm.DB
}

func (r *ReadingDB) Create(ctx context.Context, reading *model.Reading) error {
	if err := r.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("保存读数失败: %w", err)
	}
	return nil
}

// CreateBatch 批量保存读数
func (r *ReadingDB) CreateBatch(ctx context.Context, readings []*model.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(readings, 500).Error; err != nil {
		return fmt.Errorf("批量保存读数失败: %w", err)
	}
	return nil
}

func (r *ReadingDB) GetByMetric(ctx context.Context, metricID string, limit int) ([]*model.Reading, error) {
	var readings []*model.Reading
	err := r.db.WithContext(ctx).
		Where("metric_id = ?", metricID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("查询读数失败: %w", err)
	}
	return readings, nil
}
