package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizops/internal/api/validate"
	"bizops/pkg/response"
)

// ContextKeyUserID 认证中间件写入的上下文键
const ContextKeyUserID = "user_id"

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果认证中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, ContextKeyUserID)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// bindFailed 参数校验失败时统一返回 400，附带字段级详情
func bindFailed(c *gin.Context, err error) {
	if details := validate.Details(err); len(details) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", details)
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}
