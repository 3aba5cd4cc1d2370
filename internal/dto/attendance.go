package dto

// ── 考勤模块 DTO ──

// AttendanceEntry 单条考勤提交
// Date 为空时使用请求级 Date，再为空时使用当天
type AttendanceEntry struct {
	EmployeeID int    `json:"employee_id" binding:"required,gt=0"`
	Status     string `json:"status"      binding:"required,attendance_status"`
	Date       string `json:"date"        binding:"omitempty,calendar_date"`
}

// SubmitAttendanceRequest 批量提交考勤
// Edit=true 表示处于编辑模式，允许覆盖已记录日期的考勤
type SubmitAttendanceRequest struct {
	Date       string            `json:"date"       binding:"omitempty,calendar_date"`
	Edit       bool              `json:"edit"`
	Attendance []AttendanceEntry `json:"attendance" binding:"required,min=1,dive"`
}

// HolidayRequest 整日设为假期 / 恢复为缺勤
type HolidayRequest struct {
	Date    string `json:"date"    binding:"required,calendar_date"`
	Holiday bool   `json:"holiday"`
	Edit    bool   `json:"edit"`
}

// AttendanceDateQuery /newattendance?date= 查询参数
type AttendanceDateQuery struct {
	Date string `form:"date" binding:"omitempty,calendar_date"`
}

// MonthlySummaryQuery 月度汇总查询参数，Year=0 表示不区分年份
type MonthlySummaryQuery struct {
	Year int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

// ExportAttendanceQuery 导出月度考勤查询参数
type ExportAttendanceQuery struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year"  binding:"omitempty,min=1970,max=9999"`
}

// ── 考勤模块响应 ──

// TodayAttendanceResponse 员工列表 + 今日是否已记录考勤
type TodayAttendanceResponse struct {
	Date               string             `json:"date"`
	Employees          []EmployeeResponse `json:"employees"`
	AttendanceRecorded bool               `json:"attendanceRecorded"`
}

// AttendanceRecordResponse 单条考勤记录
type AttendanceRecordResponse struct {
	EmployeeID int    `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// MonthSummary 员工某月的考勤汇总
type MonthSummary struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	HalfDay  int `json:"halfDay"`
	Holidays int `json:"holidays"`
	Total    int `json:"total"`
}

// DateAttendanceResponse 指定日期的考勤记录 + 当月汇总
// MonthSummary 以 employee_id 为键，覆盖全部员工
type DateAttendanceResponse struct {
	Date         string                     `json:"date"`
	Recorded     bool                       `json:"recorded"`
	Attendance   []AttendanceRecordResponse `json:"attendance"`
	MonthSummary map[int]MonthSummary       `json:"monthSummary"`
}

// AttendanceMapResponse 指定日期 employee_id → 状态（未记录者为 Absent）
type AttendanceMapResponse struct {
	Date           string         `json:"date"`
	Recorded       bool           `json:"recorded"`
	AttendanceData map[int]string `json:"attendanceData"`
}

// SubmitAttendanceResponse 提交结果
type SubmitAttendanceResponse struct {
	Dates   []string `json:"dates"`
	Saved   int      `json:"saved"`
	Updated bool     `json:"updated"` // 是否覆盖了已有记录
}

// InvalidAttendanceEntry 校验失败的条目
type InvalidAttendanceEntry struct {
	Index      int    `json:"index"`
	EmployeeID int    `json:"employee_id"`
	Reason     string `json:"reason"`
}

// EmployeeMonthSummary 单名员工的月度汇总行（导出用）
type EmployeeMonthSummary struct {
	EmployeeID int    `json:"employee_id"`
	Name       string `json:"name"`
	MonthSummary
}
