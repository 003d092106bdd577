// pkg/model/user.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// User 平台用户
type User struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"uniqueIndex" json:"email"`
	Role        string     `gorm:"type:varchar(20);default:'user'" json:"role"` // user / admin
	Status      int        `gorm:"default:1;index" json:"status"`               // 1:正常 0:禁用
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// 关联关系
	Devices []Device `gorm:"foreignKey:UserID" json:"devices,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
