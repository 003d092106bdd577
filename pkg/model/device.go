// pkg/model/device.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// DeviceStatus 设备状态
type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "online"
	DeviceOffline DeviceStatus = "offline"
)

// Device 智能家居设备，归属唯一用户
type Device struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string       `gorm:"type:uuid;not null;index" json:"user_id"` // 设备归属用户
	Name      string       `gorm:"not null" json:"name"`
	Location  string       `json:"location"`
	Status    DeviceStatus `gorm:"type:varchar(20);default:'offline';index" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// 关联关系
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Metrics []Metric `gorm:"foreignKey:DeviceID" json:"metrics,omitempty"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
