// pkg/model/reading.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// Reading 一次指标观测值，写入后不可变
type Reading struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	MetricID  string    `gorm:"type:uuid;not null;index" json:"metric_id"`
	Value     float64   `gorm:"type:decimal(12,4);not null" json:"value"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`

	// 关联关系
	Metric Metric `gorm:"foreignKey:MetricID" json:"metric,omitempty"`
}

func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return nil
}

func (Reading) TableName() string {
	return "readings"
}
