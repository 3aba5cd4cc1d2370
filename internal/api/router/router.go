package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizops/config"
	"bizops/internal/api/handler"
	"bizops/internal/api/middleware"
	"bizops/internal/api/validate"
	"bizops/pkg/redis"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时登录限流关闭；db 为 nil 时健康检查不探测数据库
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	sessions middleware.SessionValidator,
	rdb *redis.Client,
	db *gorm.DB,
	logger *zap.Logger,
) (*gin.Engine, error) {
	if err := validate.Register(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	base := r.Group(normalizeBasePath(cfg.Server.BasePath))

	// ── 健康检查 ──
	base.GET("/health", healthCheck(db))

	// 登录限流：Redis 不可用时不限流
	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}

	// ── 认证模块（无需认证） ──
	base.POST("/register", h.Auth.Register)
	base.POST("/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute, logger), h.Auth.Login)
	base.POST("/logout", h.Auth.Logout) // 无有效会话时同样成功

	// ── 需要认证的路由 ──
	authorized := base.Group("")
	authorized.Use(middleware.SessionAuth(sessions, cfg.Auth.Cookie.Name))
	{
		authorized.GET("/me", h.Auth.GetCurrentUser)

		// 考勤模块
		attendance := authorized.Group("/attendance")
		{
			attendance.GET("", h.Attendance.ListToday)
			attendance.POST("", h.Attendance.Submit)
			attendance.POST("/holiday", h.Attendance.SetHoliday)
			attendance.GET("/:date", h.Attendance.GetByDate)
		}

		// 考勤（新版接口）
		newAttendance := authorized.Group("/newattendance")
		{
			newAttendance.GET("", h.Attendance.GetMap)
			newAttendance.POST("", h.Attendance.Submit)
			newAttendance.GET("/:month", h.Attendance.GetMonthlySummary)
		}

		// 库存模块
		stock := authorized.Group("/stock")
		{
			stock.GET("", h.Stock.ListStock)
			stock.POST("", h.Stock.CreateStock)
			stock.PUT("/:id", h.Stock.UpdateStock)
			stock.DELETE("/:id", h.Stock.DeleteStock)
		}

		// 导出模块
		export := authorized.Group("/export")
		{
			export.GET("/attendance", h.Export.ExportAttendance)
		}
	}

	return r, nil
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// normalizeBasePath "" / "/" → "/"，"api/" → "/api"
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}
