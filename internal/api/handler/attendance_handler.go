package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizops/internal/dto"
	"bizops/internal/service"
	"bizops/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
// 同时服务 /attendance 与 /newattendance 两套接口
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ListToday 员工列表 + 今日是否已记录
// GET /attendance
func (h *AttendanceHandler) ListToday(c *gin.Context) {
	res, err := h.attendanceSvc.ListEmployeesWithTodayStatus(c.Request.Context())
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// GetByDate 指定日期的考勤记录 + 当月汇总
// GET /attendance/:date
func (h *AttendanceHandler) GetByDate(c *gin.Context) {
	res, err := h.attendanceSvc.GetAttendanceForDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// GetMap 不带 date 时等同 ListToday，带 date 时返回 employee_id → 状态
// GET /newattendance[?date=YYYY-MM-DD]
func (h *AttendanceHandler) GetMap(c *gin.Context) {
	var q dto.AttendanceDateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	if q.Date == "" {
		h.ListToday(c)
		return
	}

	res, err := h.attendanceSvc.GetAttendanceMap(c.Request.Context(), q.Date)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// GetMonthlySummary 月度汇总，:month 为 "6" 或 "2024-06"
// GET /newattendance/:month[?year=YYYY]
func (h *AttendanceHandler) GetMonthlySummary(c *gin.Context) {
	month, year, err := service.ParseMonthParam(c.Param("month"))
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	var q dto.MonthlySummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	if year == 0 {
		year = q.Year
	}

	res, err := h.attendanceSvc.GetMonthlySummary(c.Request.Context(), month, year)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"month": month, "year": year, "monthSummary": res})
}

// Submit 批量提交考勤
// POST /attendance, POST /newattendance
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.attendanceSvc.SubmitAttendance(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// SetHoliday 整日设为假期 / 取消假期
// POST /attendance/holiday
func (h *AttendanceHandler) SetHoliday(c *gin.Context) {
	var req dto.HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.attendanceSvc.SetHoliday(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	var verr *service.AttendanceValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12003, "考勤数据校验失败", verr.Entries)
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12001, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 12002, "月份无效，应为 1-12 或 YYYY-MM")
	case errors.Is(err, service.ErrEmptyAttendanceSet):
		response.BadRequest(c, 12004, "考勤列表不能为空")
	case errors.Is(err, service.ErrEditModeRequired):
		response.Conflict(c, 12005, "该日期考勤已记录，请先进入编辑模式")
	case errors.Is(err, service.ErrNoEmployees):
		response.NotFound(c, 12006, "暂无员工")
	default:
		response.InternalError(c)
	}
}
