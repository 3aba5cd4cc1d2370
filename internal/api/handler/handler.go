package handler

import (
	"bizops/config"
	"bizops/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Stock      *StockHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, authCfg *config.AuthConfig) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, authCfg),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Stock:      NewStockHandler(svc.Stock),
		Export:     NewExportHandler(svc.Export),
	}
}
