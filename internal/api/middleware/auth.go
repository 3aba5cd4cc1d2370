package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"bizops/internal/dto"
	"bizops/internal/service"
	"bizops/pkg/response"
)

// SessionValidator 校验会话 Token（由 AuthService 实现）
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*dto.SessionInfo, error)
}

// SessionAuth 会话认证中间件
// 从 Cookie 中读取会话 Token，校验签名并确认服务端会话仍然存在
func SessionAuth(validator SessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Unauthorized(c, 10002, "未登录")
			c.Abort()
			return
		}

		info, err := validator.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				response.Unauthorized(c, 10002, "会话无效或已过期")
			} else {
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		// 将会话信息注入上下文
		c.Set("user_id", info.UserID)
		c.Set("session_id", info.SessionID)

		c.Next()
	}
}
