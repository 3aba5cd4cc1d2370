package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bizops/internal/dto"
	"bizops/internal/model"
	"bizops/internal/repository"
	"bizops/pkg/jwt"
	"bizops/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrSessionInvalid     = errors.New("会话无效或已过期")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error)
	// ValidateSession 校验 Cookie 中的会话 Token，且要求服务端会话仍存在
	ValidateSession(ctx context.Context, token string) (*dto.SessionInfo, error)
	// Logout 注销会话（幂等）
	Logout(ctx context.Context, sessionID string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	sessions sessionStore
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
// rdb 为 nil 时会话存入 PostgreSQL
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		jwtMgr:   jwtMgr,
		sessions: newSessionStore(repo, rdb),
		logger:   logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)

	// 1. 邮箱唯一
	_, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 密码哈希 (bcrypt)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID))
	return toUserResponse(user), nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 创建服务端会话并签发 Token
	sessionID := uuid.NewString()
	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(sessionID, user.UserID)
	if err != nil {
		s.logger.Error("生成会话 Token 失败", zap.Error(err))
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, user.UserID, expiresAt); err != nil {
		s.logger.Error("保存会话失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("user_id", user.UserID))

	return &dto.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      *toUserResponse(user),
	}, nil
}

// ────────────────────── ValidateSession ──────────────────────

func (s *authService) ValidateSession(ctx context.Context, token string) (*dto.SessionInfo, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	userID, err := s.sessions.UserID(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, errSessionGone) {
			return nil, ErrSessionInvalid
		}
		s.logger.Error("读取会话失败", zap.Error(err))
		return nil, err
	}
	if userID != claims.UserID {
		s.logger.Warn("会话用户不一致", zap.String("session_id", claims.SessionID()))
		return nil, ErrSessionInvalid
	}

	return &dto.SessionInfo{SessionID: claims.SessionID(), UserID: userID}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("删除会话失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ── 内部辅助方法 ──

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:    u.UserID,
		Name:  u.Name,
		Email: u.Email,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
