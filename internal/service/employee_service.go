package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bizops/internal/dto"
	"bizops/internal/model"
	"bizops/internal/repository"
)

// ── 员工导入业务错误 ──

const maxImportRows = 5000

var (
	ErrImportNoData      = errors.New("Excel 文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel 表头缺少必要列（Employee ID / Name）")
)

// EmployeeService 员工名册维护
// 员工由外部维护，系统内只提供命令行批量导入
type EmployeeService interface {
	ParseImportFile(reader io.Reader) ([]dto.ImportEmployeeRow, error)
	ImportEmployees(ctx context.Context, rows []dto.ImportEmployeeRow) (*dto.ImportEmployeeResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── ParseImportFile ──────────────────────

// ParseImportFile 解析第一个工作表，表头需包含 Employee ID 与 Name 两列（列序不限）
func (s *employeeService) ParseImportFile(reader io.Reader) ([]dto.ImportEmployeeRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析 Excel 文件: %w", err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	idCol, nameCol := -1, -1
	for i, h := range excelRows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "employee id", "employee_id", "id", "员工编号":
			idCol = i
		case "name", "姓名":
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []dto.ImportEmployeeRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := dto.ImportEmployeeRow{Row: i + 1}
		if idCol < len(row) {
			item.EmployeeID = strings.TrimSpace(row[idCol])
		}
		if nameCol < len(row) {
			item.Name = strings.TrimSpace(row[nameCol])
		}
		// 跳过全空行
		if item.EmployeeID == "" && item.Name == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// ────────────────────── ImportEmployees ──────────────────────

// ImportEmployees 合法行一次性写入，非法行逐行报告；同一 ID 出现多次时以最后一行为准
func (s *employeeService) ImportEmployees(ctx context.Context, rows []dto.ImportEmployeeRow) (*dto.ImportEmployeeResponse, error) {
	resp := &dto.ImportEmployeeResponse{Total: len(rows)}

	byID := make(map[int]int) // employee_id → employees 下标
	var employees []model.Employee
	for _, row := range rows {
		id, err := strconv.Atoi(row.EmployeeID)
		switch {
		case err != nil || id <= 0:
			resp.Errors = append(resp.Errors, dto.ImportEmployeeError{Row: row.Row, Reason: fmt.Sprintf("员工编号无效: %q", row.EmployeeID)})
			continue
		case row.Name == "":
			resp.Errors = append(resp.Errors, dto.ImportEmployeeError{Row: row.Row, Reason: "姓名不能为空"})
			continue
		}

		if idx, ok := byID[id]; ok {
			employees[idx].Name = row.Name
			continue
		}
		byID[id] = len(employees)
		employees = append(employees, model.Employee{EmployeeID: id, Name: row.Name})
	}

	if err := s.repo.Employee.Upsert(ctx, employees); err != nil {
		s.logger.Error("导入员工失败", zap.Int("count", len(employees)), zap.Error(err))
		return nil, err
	}

	resp.Failed = len(resp.Errors)
	resp.Imported = resp.Total - resp.Failed
	s.logger.Info("员工导入完成",
		zap.Int("total", resp.Total),
		zap.Int("imported", resp.Imported),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}
