package dto

// ImportEmployeeRow 员工导入文件中的一行
type ImportEmployeeRow struct {
	Row        int    // Excel 行号（从 1 开始，含表头）
	EmployeeID string // 原始文本，导入时校验
	Name       string
}

// ImportEmployeeResponse 员工导入结果
type ImportEmployeeResponse struct {
	Total    int                    `json:"total"`
	Imported int                    `json:"imported"`
	Failed   int                    `json:"failed"`
	Errors   []ImportEmployeeError `json:"errors,omitempty"`
}

// ImportEmployeeError 单行导入失败原因
type ImportEmployeeError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
