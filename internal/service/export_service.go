package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportMonthlyAttendance 导出月度考勤汇总为 Excel，year=0 表示合并所有年份
	ExportMonthlyAttendance(ctx context.Context, month, year int) (*bytes.Buffer, string, error)
}

type exportService struct {
	attendance AttendanceService
	logger     *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(attendance AttendanceService, logger *zap.Logger) ExportService {
	return &exportService{attendance: attendance, logger: logger}
}

var attendanceHeaders = []string{"Employee ID", "Name", "Present", "Absent", "Half Day", "Holiday", "Total"}

// ═══════════════════════════════════════════════════════════
// ExportMonthlyAttendance 导出月度考勤汇总
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "考勤汇总"
//   - 第 1 行标题，第 2 行表头，之后每名员工一行（按员工 ID 排序）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportMonthlyAttendance(ctx context.Context, month, year int) (*bytes.Buffer, string, error) {
	rows, err := s.attendance.GetMonthlyReport(ctx, month, year)
	if err != nil {
		return nil, "", err
	}

	period := fmt.Sprintf("%02d", month)
	if year > 0 {
		period = fmt.Sprintf("%04d-%02d", year, month)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "考勤汇总"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", colName(len(attendanceHeaders)-1), 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("考勤汇总 %s", period))
	f.MergeCell(sheetName, "A1", cell(colName(len(attendanceHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range attendanceHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(attendanceHeaders)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, r := range rows {
		values := []interface{}{r.EmployeeID, r.Name, r.Present, r.Absent, r.HalfDay, r.Holidays, r.Total}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("导出月度考勤", zap.String("period", period), zap.Int("rows", len(rows)))
	return buf, fmt.Sprintf("attendance_%s.xlsx", period), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
