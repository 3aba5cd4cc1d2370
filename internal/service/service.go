package service

import (
	"go.uber.org/zap"

	"bizops/config"
	"bizops/internal/repository"
	"bizops/pkg/jwt"
	"bizops/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Attendance AttendanceService
	Stock      StockService
	Export     ExportService
	Employee   EmployeeService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：会话降级存入 PostgreSQL
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	attendance := NewAttendanceService(repo, cfg.Attendance.Location(), logger)
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, rdb, logger),
		Attendance: attendance,
		Stock:      NewStockService(repo, logger),
		Export:     NewExportService(attendance, logger),
		Employee:   NewEmployeeService(repo, logger),
	}
}
