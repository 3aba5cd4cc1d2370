package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bizops/internal/dto"
	"bizops/internal/model"
	"bizops/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrInvalidDate        = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidMonth       = errors.New("月份无效，应为 1-12 或 YYYY-MM")
	ErrInvalidAttendance  = errors.New("考勤数据校验失败")
	ErrEditModeRequired   = errors.New("该日期考勤已记录，请先进入编辑模式")
	ErrNoEmployees        = errors.New("暂无员工")
	ErrEmptyAttendanceSet = errors.New("考勤列表不能为空")
)

// AttendanceValidationError 提交中存在非法条目；整批拒绝，不写入任何记录
type AttendanceValidationError struct {
	Entries []dto.InvalidAttendanceEntry
}

func (e *AttendanceValidationError) Error() string {
	return fmt.Sprintf("%s: %d 条记录无效", ErrInvalidAttendance.Error(), len(e.Entries))
}

// Is 使 errors.Is(err, ErrInvalidAttendance) 成立
func (e *AttendanceValidationError) Is(target error) bool {
	return target == ErrInvalidAttendance
}

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// ListEmployeesWithTodayStatus 全部员工 + 今天是否已有考勤记录
	ListEmployeesWithTodayStatus(ctx context.Context) (*dto.TodayAttendanceResponse, error)
	// GetAttendanceForDate 指定日期的考勤记录 + 全部员工当月（含年份）汇总
	GetAttendanceForDate(ctx context.Context, date string) (*dto.DateAttendanceResponse, error)
	// GetAttendanceMap 指定日期 employee_id → 状态，未记录的员工视为 Absent
	GetAttendanceMap(ctx context.Context, date string) (*dto.AttendanceMapResponse, error)
	// SubmitAttendance 批量写入考勤，全部成功或全部不写
	SubmitAttendance(ctx context.Context, req *dto.SubmitAttendanceRequest, callerID string) (*dto.SubmitAttendanceResponse, error)
	// SetHoliday 将指定日期全部员工设为 Holiday（holiday=false 时恢复为 Absent）
	SetHoliday(ctx context.Context, req *dto.HolidayRequest, callerID string) (*dto.SubmitAttendanceResponse, error)
	// GetMonthlySummary 全部员工的月度汇总，year=0 时合并所有年份的同一月份
	GetMonthlySummary(ctx context.Context, month, year int) (map[int]dto.MonthSummary, error)
	// GetMonthlyReport 同 GetMonthlySummary，按员工 ID 排序并带姓名
	GetMonthlyReport(ctx context.Context, month, year int) ([]dto.EmployeeMonthSummary, error)
}

type attendanceService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
// loc 用于确定"今天"
func NewAttendanceService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

// ────────────────────── ListEmployeesWithTodayStatus ──────────────────────

func (s *attendanceService) ListEmployeesWithTodayStatus(ctx context.Context) (*dto.TodayAttendanceResponse, error) {
	today := s.today()

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	counts, err := s.repo.Attendance.CountByDates(ctx, []time.Time{today})
	if err != nil {
		s.logger.Error("查询今日考勤失败", zap.Error(err))
		return nil, err
	}

	return &dto.TodayAttendanceResponse{
		Date:               formatDate(today),
		Employees:          toEmployeeResponses(employees),
		AttendanceRecorded: counts[formatDate(today)] > 0,
	}, nil
}

// ────────────────────── GetAttendanceForDate ──────────────────────

func (s *attendanceService) GetAttendanceForDate(ctx context.Context, date string) (*dto.DateAttendanceResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	summary, err := s.GetMonthlySummary(ctx, int(day.Month()), day.Year())
	if err != nil {
		return nil, err
	}

	attendance := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		attendance = append(attendance, toRecordResponse(&records[i]))
	}

	return &dto.DateAttendanceResponse{
		Date:         formatDate(day),
		Recorded:     len(records) > 0,
		Attendance:   attendance,
		MonthSummary: summary,
	}, nil
}

// ────────────────────── GetAttendanceMap ──────────────────────

func (s *attendanceService) GetAttendanceMap(ctx context.Context, date string) (*dto.AttendanceMapResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Attendance.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	data := make(map[int]string, len(employees))
	for _, e := range employees {
		data[e.EmployeeID] = model.StatusAbsent
	}
	for _, r := range records {
		data[r.EmployeeID] = r.Status
	}

	return &dto.AttendanceMapResponse{
		Date:           formatDate(day),
		Recorded:       len(records) > 0,
		AttendanceData: data,
	}, nil
}

// ────────────────────── SubmitAttendance ──────────────────────

func (s *attendanceService) SubmitAttendance(ctx context.Context, req *dto.SubmitAttendanceRequest, callerID string) (*dto.SubmitAttendanceResponse, error) {
	if len(req.Attendance) == 0 {
		return nil, ErrEmptyAttendanceSet
	}

	defaultDay := s.today()
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		defaultDay = d
	}

	// 1. 逐条校验，收集全部非法条目
	type key struct {
		employeeID int
		day        string
	}
	var invalid []dto.InvalidAttendanceEntry
	seen := make(map[key]int, len(req.Attendance))
	records := make([]model.AttendanceRecord, 0, len(req.Attendance))
	recordIndex := make([]int, 0, len(req.Attendance)) // records[i] 对应的请求下标

	for i, entry := range req.Attendance {
		day := defaultDay
		if entry.Date != "" {
			d, err := parseDate(entry.Date)
			if err != nil {
				invalid = append(invalid, invalidEntry(i, entry, "日期格式无效"))
				continue
			}
			day = d
		}
		if entry.EmployeeID <= 0 {
			invalid = append(invalid, invalidEntry(i, entry, "员工ID无效"))
			continue
		}
		if !model.IsValidAttendanceStatus(entry.Status) {
			invalid = append(invalid, invalidEntry(i, entry, fmt.Sprintf("未知考勤状态 %q", entry.Status)))
			continue
		}
		k := key{employeeID: entry.EmployeeID, day: formatDate(day)}
		if first, dup := seen[k]; dup {
			invalid = append(invalid, invalidEntry(i, entry, fmt.Sprintf("与第 %d 条重复", first)))
			continue
		}
		seen[k] = i

		rec := model.AttendanceRecord{
			EmployeeID: entry.EmployeeID,
			Date:       day,
			Status:     entry.Status,
		}
		if callerID != "" {
			by := callerID
			rec.RecordedBy = &by
		}
		records = append(records, rec)
		recordIndex = append(recordIndex, i)
	}

	// 2. 校验员工存在
	missing, err := s.missingEmployees(ctx, records)
	if err != nil {
		return nil, err
	}
	for j, rec := range records {
		if missing[rec.EmployeeID] {
			i := recordIndex[j]
			invalid = append(invalid, invalidEntry(i, req.Attendance[i], "员工不存在"))
		}
	}

	if len(invalid) > 0 {
		sort.Slice(invalid, func(a, b int) bool { return invalid[a].Index < invalid[b].Index })
		return nil, &AttendanceValidationError{Entries: invalid}
	}

	return s.save(ctx, records, req.Edit)
}

// ────────────────────── SetHoliday ──────────────────────

func (s *attendanceService) SetHoliday(ctx context.Context, req *dto.HolidayRequest, callerID string) (*dto.SubmitAttendanceResponse, error) {
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}
	if len(employees) == 0 {
		return nil, ErrNoEmployees
	}

	status := model.StatusAbsent
	if req.Holiday {
		status = model.StatusHoliday
	}

	entries := make([]dto.AttendanceEntry, 0, len(employees))
	for _, e := range employees {
		entries = append(entries, dto.AttendanceEntry{EmployeeID: e.EmployeeID, Status: status})
	}

	return s.SubmitAttendance(ctx, &dto.SubmitAttendanceRequest{
		Date:       formatDate(day),
		Edit:       req.Edit,
		Attendance: entries,
	}, callerID)
}

// ────────────────────── GetMonthlySummary ──────────────────────

func (s *attendanceService) GetMonthlySummary(ctx context.Context, month, year int) (map[int]dto.MonthSummary, error) {
	rows, err := s.GetMonthlyReport(ctx, month, year)
	if err != nil {
		return nil, err
	}

	result := make(map[int]dto.MonthSummary, len(rows))
	for _, row := range rows {
		result[row.EmployeeID] = row.MonthSummary
	}
	return result, nil
}

func (s *attendanceService) GetMonthlyReport(ctx context.Context, month, year int) ([]dto.EmployeeMonthSummary, error) {
	if month < 1 || month > 12 || year < 0 {
		return nil, ErrInvalidMonth
	}

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	var counts []model.StatusCount
	if year == 0 {
		counts, err = s.repo.Attendance.CountByStatusForMonth(ctx, month)
	} else {
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		counts, err = s.repo.Attendance.CountByStatus(ctx, from, from.AddDate(0, 1, 0))
	}
	if err != nil {
		s.logger.Error("统计月度考勤失败", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		return nil, err
	}

	rows := make(map[int]*dto.EmployeeMonthSummary, len(employees))
	for _, e := range employees {
		rows[e.EmployeeID] = &dto.EmployeeMonthSummary{EmployeeID: e.EmployeeID, Name: e.Name}
	}
	for _, c := range counts {
		row, ok := rows[c.EmployeeID]
		if !ok {
			row = &dto.EmployeeMonthSummary{EmployeeID: c.EmployeeID}
			rows[c.EmployeeID] = row
		}
		addStatusCount(&row.MonthSummary, c.Status, int(c.Count))
	}

	result := make([]dto.EmployeeMonthSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

// ParseMonthParam 解析月份参数："6" / "06" 返回 (6, 0)，"2024-06" 返回 (6, 2024)
func ParseMonthParam(s string) (month, year int, err error) {
	s = strings.TrimSpace(s)
	if y, m, ok := strings.Cut(s, "-"); ok {
		t, perr := time.Parse("2006-01", y+"-"+m)
		if perr != nil {
			return 0, 0, ErrInvalidMonth
		}
		return int(t.Month()), t.Year(), nil
	}
	month, perr := strconv.Atoi(s)
	if perr != nil || month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonth
	}
	return month, 0, nil
}

// ── 内部辅助方法 ──

// save 在同一事务内检查编辑模式并写入
func (s *attendanceService) save(ctx context.Context, records []model.AttendanceRecord, edit bool) (*dto.SubmitAttendanceResponse, error) {
	daySet := make(map[string]time.Time)
	for _, r := range records {
		daySet[formatDate(r.Date)] = r.Date
	}
	days := make([]time.Time, 0, len(daySet))
	for _, d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var updated bool
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		existing, err := txRepo.Attendance.CountByDates(ctx, days)
		if err != nil {
			return err
		}
		for _, n := range existing {
			if n > 0 {
				updated = true
				break
			}
		}
		if updated && !edit {
			return ErrEditModeRequired
		}
		return txRepo.Attendance.Upsert(ctx, records)
	})
	if err != nil {
		if !errors.Is(err, ErrEditModeRequired) {
			s.logger.Error("写入考勤失败", zap.Int("count", len(records)), zap.Error(err))
		}
		return nil, err
	}

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, formatDate(d))
	}

	s.logger.Info("考勤已保存",
		zap.Strings("dates", dates),
		zap.Int("count", len(records)),
		zap.Bool("updated", updated),
	)

	return &dto.SubmitAttendanceResponse{
		Dates:   dates,
		Saved:   len(records),
		Updated: updated,
	}, nil
}

// missingEmployees 返回 records 中不存在的员工 ID 集合
func (s *attendanceService) missingEmployees(ctx context.Context, records []model.AttendanceRecord) (map[int]bool, error) {
	idSet := make(map[int]struct{}, len(records))
	ids := make([]int, 0, len(records))
	for _, r := range records {
		if _, ok := idSet[r.EmployeeID]; !ok {
			idSet[r.EmployeeID] = struct{}{}
			ids = append(ids, r.EmployeeID)
		}
	}

	found, err := s.repo.Employee.ListIDs(ctx, ids)
	if err != nil {
		s.logger.Error("校验员工失败", zap.Error(err))
		return nil, err
	}
	for _, id := range found {
		delete(idSet, id)
	}

	missing := make(map[int]bool, len(idSet))
	for id := range idSet {
		missing[id] = true
	}
	return missing, nil
}

// today 考勤时区下的当天（以 UTC 零点表示日期）
func (s *attendanceService) today() time.Time {
	t := s.now().In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

func addStatusCount(m *dto.MonthSummary, status string, n int) {
	switch status {
	case model.StatusPresent:
		m.Present += n
	case model.StatusAbsent:
		m.Absent += n
	case model.StatusHalfDay:
		m.HalfDay += n
	case model.StatusHoliday:
		m.Holidays += n
	default:
		return
	}
	m.Total += n
}

func invalidEntry(i int, e dto.AttendanceEntry, reason string) dto.InvalidAttendanceEntry {
	return dto.InvalidAttendanceEntry{Index: i, EmployeeID: e.EmployeeID, Reason: reason}
}

func toRecordResponse(r *model.AttendanceRecord) dto.AttendanceRecordResponse {
	return dto.AttendanceRecordResponse{
		EmployeeID: r.EmployeeID,
		Date:       formatDate(r.Date),
		Status:     r.Status,
	}
}

func toEmployeeResponses(employees []model.Employee) []dto.EmployeeResponse {
	result := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, dto.EmployeeResponse{EmployeeID: e.EmployeeID, Name: e.Name})
	}
	return result
}
