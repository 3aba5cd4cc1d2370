package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bizops/internal/dto"
	"bizops/internal/service"
	"bizops/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出月度考勤汇总
// GET /export/attendance?month=6[&year=2024]
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	var q dto.ExportAttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportMonthlyAttendance(c.Request.Context(), q.Month, q.Year)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 12002, "月份无效，应为 1-12")
	default:
		response.InternalError(c)
	}
}
