package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bizops/config"
	"bizops/internal/dto"
	"bizops/internal/service"
	"bizops/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cfg     *config.AuthConfig
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	if cfg == nil {
		cfg = &config.AuthConfig{Cookie: config.CookieConfig{Name: "session_token"}}
	}
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

// Register 注册
// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, user)
}

// Login 登录，会话 Token 仅写入 HttpOnly Cookie
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.cfg.SessionTTL.Seconds()))
	response.OK(c, result)
}

// Logout 注销当前会话并清除 Cookie（幂等，无有效会话时同样返回成功）
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.Cookie.Name); err == nil && token != "" {
		info, err := h.authSvc.ValidateSession(c.Request.Context(), token)
		switch {
		case err == nil:
			if err := h.authSvc.Logout(c.Request.Context(), info.SessionID); err != nil {
				response.InternalError(c)
				return
			}
		case errors.Is(err, service.ErrSessionInvalid):
			// 会话已失效，仅清除 Cookie
		default:
			// 会话存储不可用时无法确认注销，保留 Cookie 让客户端重试
			response.InternalError(c)
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	response.OK(c, nil)
}

// GetCurrentUser 获取当前登录用户
// GET /me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cfg.Cookie.SameSite))
	c.SetCookie(h.cfg.Cookie.Name, value, maxAge, "/", h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "邮箱或密码错误")
	case errors.Is(err, service.ErrSessionInvalid):
		response.Unauthorized(c, 10002, "未认证")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11002, "邮箱已被注册")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11003, "用户不存在")
	default:
		response.InternalError(c)
	}
}
