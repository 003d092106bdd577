// pkg/database/rule.go
package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"HomeRadar/pkg/model"
)

type RuleDB struct {
	db *gorm.DB
}

// FindByMetric 按创建顺序返回指标下的全部告警规则
func (r *RuleDB) FindByMetric(ctx context.Context, metricID string) ([]model.AlertRule, error) {
	var rules []model.AlertRule
	err := r.db.WithContext(ctx).
		Where("metric_id = ?", metricID).
		Order("created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("查询告警规则失败: %w", err)
	}
	return rules, nil
}

func (r *RuleDB) Create(ctx context.Context, rule *model.AlertRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("保存告警规则失败: %w", err)
	}
	return nil
}

func (r *RuleDB) Delete(ctx context.Context, ruleID string) error {
	if err := r.db.WithContext(ctx).Delete(&model.AlertRule{}, "id = ?", ruleID).Error; err != nil {
		return fmt.Errorf("删除告警规则失败: %w", err)
	}
	return nil
}
