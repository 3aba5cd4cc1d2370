package dto

// ── 通用 ──

// EmployeeResponse 员工信息
type EmployeeResponse struct {
	EmployeeID int    `json:"employee_id"`
	Name       string `json:"name"`
}

// ListQuery 通用列表查询参数
type ListQuery struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}
