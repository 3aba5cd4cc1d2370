package model

import "time"

// BaseModel 通用时间戳字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AuditModel 带操作人审计字段（操作人为 users.user_id）
type AuditModel struct {
	BaseModel
	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy *string `gorm:"type:uuid" json:"updated_by,omitempty"`
}
