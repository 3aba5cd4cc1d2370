package model

// Employee 员工表 — 对应 employees（HTTP 接口只读，名册由 importemployees 命令导入）
type Employee struct {
	EmployeeID int    `gorm:"primaryKey;autoIncrement:false" json:"employee_id"`
	Name       string `gorm:"type:varchar(100);not null"     json:"name"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
