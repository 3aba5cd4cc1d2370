package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bizops/internal/model"
)

// SessionRepository 会话数据访问接口（Redis 不可用时的降级存储）
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.Session{}).Error
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
