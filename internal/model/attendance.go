package model

import "time"

// 考勤状态
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half Day"
	StatusHoliday = "Holiday"
)

// AttendanceStatuses 全部合法考勤状态
var AttendanceStatuses = []string{StatusPresent, StatusAbsent, StatusHalfDay, StatusHoliday}

// IsValidAttendanceStatus 判断状态是否合法（区分大小写）
func IsValidAttendanceStatus(s string) bool {
	for _, v := range AttendanceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DateLayout 考勤日期格式
const DateLayout = "2006-01-02"

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// 主键 (employee_id, date)：每名员工每天至多一条，提交即覆盖，不删除
type AttendanceRecord struct {
	EmployeeID int       `gorm:"primaryKey;autoIncrement:false"  json:"employee_id"`
	Date       time.Time `gorm:"type:date;primaryKey"            json:"date"`
	Status     string    `gorm:"type:varchar(20);not null"       json:"status"`
	RecordedBy *string   `gorm:"type:uuid"                       json:"recorded_by,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// StatusCount 按员工、状态聚合的考勤天数（月度汇总查询结果）
type StatusCount struct {
	EmployeeID int
	Status     string
	Count      int64
}
