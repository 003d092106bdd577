// pkg/model/metric.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// Metric 设备上报的指标定义（温度、湿度、功耗等）
type Metric struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID  string    `gorm:"type:uuid;not null;index" json:"device_id"` // 归属设备
	Name      string    `gorm:"not null" json:"name"`                      // 展示名称，如 Temperature
	Unit      string    `gorm:"type:varchar(20)" json:"unit"`              // 单位，如 °C
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联关系
	Device   Device      `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	Readings []Reading   `gorm:"foreignKey:MetricID;constraint:OnDelete:CASCADE" json:"readings,omitempty"`
	Rules    []AlertRule `gorm:"foreignKey:MetricID;constraint:OnDelete:CASCADE" json:"rules,omitempty"`
}

func (m *Metric) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// MetricInfo 告警评估所需的指标摘要：展示名称 + 设备归属用户
type MetricInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DeviceOwnerID string `json:"device_owner_id"`
}
