package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bizops/internal/model"
	"bizops/internal/repository"
	"bizops/pkg/redis"
)

// errSessionGone 会话不存在、已过期或已注销
var errSessionGone = errors.New("会话不存在")

// sessionStore 服务端会话存储
type sessionStore interface {
	Save(ctx context.Context, sessionID, userID string, expiresAt time.Time) error
	// UserID 返回会话所属用户，会话不存在或过期时返回 errSessionGone
	UserID(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// newSessionStore Redis 可用时使用 Redis，否则降级到 sessions 表
func newSessionStore(repo *repository.Repository, rdb *redis.Client) sessionStore {
	if rdb != nil {
		return &redisSessionStore{rdb: rdb}
	}
	return &dbSessionStore{repo: repo, now: time.Now}
}

// ── Redis 实现 ──

type redisSessionStore struct {
	rdb *redis.Client
}

func (s *redisSessionStore) Save(ctx context.Context, sessionID, userID string, expiresAt time.Time) error {
	return s.rdb.SaveSession(ctx, sessionID, userID, time.Until(expiresAt))
}

func (s *redisSessionStore) UserID(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.rdb.GetSession(ctx, sessionID)
	if errors.Is(err, redis.ErrSessionNotFound) {
		return "", errSessionGone
	}
	return userID, err
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.DeleteSession(ctx, sessionID)
}

// ── PostgreSQL 实现 ──

type dbSessionStore struct {
	repo *repository.Repository
	now  func() time.Time
}

func (s *dbSessionStore) Save(ctx context.Context, sessionID, userID string, expiresAt time.Time) error {
	// 顺带清理过期会话，表规模与活跃会话数同阶
	if _, err := s.repo.Session.DeleteExpired(ctx, s.now()); err != nil {
		return err
	}
	return s.repo.Session.Create(ctx, &model.Session{
		SessionID: sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
}

func (s *dbSessionStore) UserID(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errSessionGone
		}
		return "", err
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Session.Delete(ctx, sessionID)
		return "", errSessionGone
	}
	return sess.UserID, nil
}

func (s *dbSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.repo.Session.Delete(ctx, sessionID)
}
