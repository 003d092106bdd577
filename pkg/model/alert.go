// pkg/model/alert.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// ConditionOperator 规则比较运算符
type ConditionOperator string

const (
	OperatorGT  ConditionOperator = ">"
	OperatorLT  ConditionOperator = "<"
	OperatorGTE ConditionOperator = ">="
	OperatorLTE ConditionOperator = "<="
	OperatorEQ  ConditionOperator = "=="
	OperatorNEQ ConditionOperator = "!="
)

// AlertSeverity 告警严重程度
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus 告警状态
type AlertStatus string

const (
	AlertStatusNew          AlertStatus = "new"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusClosed       AlertStatus = "closed"
)

// CanTransition 判断告警状态迁移是否合法
// new -> acknowledged / closed；acknowledged -> closed；closed 为终态
func CanTransition(from, to AlertStatus) bool {
	switch from {
	case AlertStatusNew:
		return to == AlertStatusAcknowledged || to == AlertStatusClosed
	case AlertStatusAcknowledged:
		return to == AlertStatusClosed
	default:
		return false
	}
}

// AlertRule 阈值告警规则，由管理员配置
type AlertRule struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	MetricID        string            `gorm:"type:uuid;not null;index" json:"metric_id"`
	Condition       ConditionOperator `gorm:"type:varchar(4);not null" json:"condition"`
	Threshold       float64           `gorm:"type:decimal(12,4);not null" json:"threshold"`
	Level           AlertSeverity     `gorm:"type:varchar(20);not null" json:"level"`
	MessageTemplate string            `gorm:"type:text" json:"message_template"` // 支持 {metricName} {value} {threshold} 占位符
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// 关联关系
	Metric Metric `gorm:"foreignKey:MetricID" json:"metric,omitempty"`
}

func (r *AlertRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func (AlertRule) TableName() string {
	return "alert_rules"
}

// Alert 告警事件，由评估管道在规则触发时创建
type Alert struct {
	ID        string        `gorm:"type:uuid;primaryKey" json:"id"`
	MetricID  string        `gorm:"type:uuid;not null;index" json:"metric_id"`
	ReadingID *string       `gorm:"type:uuid;index" json:"reading_id"` // 读数删除后置空
	Level     AlertSeverity `gorm:"type:varchar(20);not null;index" json:"level"`
	Status    AlertStatus   `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Threshold float64       `gorm:"type:decimal(12,4)" json:"threshold"` // 触发时刻的规则阈值快照
	Message   string        `gorm:"type:text" json:"message"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// 关联关系
	Metric  Metric   `gorm:"foreignKey:MetricID" json:"metric,omitempty"`
	Reading *Reading `gorm:"foreignKey:ReadingID;constraint:OnDelete:SET NULL" json:"reading,omitempty"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = AlertStatusNew
	}
	return nil
}

func (Alert) TableName() string {
	return "alerts"
}
