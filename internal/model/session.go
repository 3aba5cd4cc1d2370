package model

import "time"

// Session 服务端会话表 — 对应 sessions
// 仅在 Redis 不可用时作为会话存储
type Session struct {
	SessionID string    `gorm:"type:uuid;primaryKey"                       json:"session_id"`
	UserID    string    `gorm:"type:uuid;not null"                         json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"                                   json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// Expired 会话是否已过期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
