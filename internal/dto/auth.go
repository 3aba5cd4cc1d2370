package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,notblank,max=100"`
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ── 认证模块响应 ──

// LoginResult 登录结果（Token 由 Handler 写入 Cookie，不出现在响应体中）
type LoginResult struct {
	Token     string       `json:"-"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SessionInfo 已验证会话的信息，由认证中间件注入上下文
type SessionInfo struct {
	SessionID string
	UserID    string
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}
