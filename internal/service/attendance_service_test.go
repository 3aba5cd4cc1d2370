package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"bizops/internal/dto"
	"bizops/internal/model"
)

// ── 测试辅助 ──

var testEmployees = []model.Employee{
	{EmployeeID: 1, Name: "Asha"},
	{EmployeeID: 2, Name: "Bilal"},
	{EmployeeID: 3, Name: "Chen"},
}

func setupTestAttendanceService(now time.Time) (*attendanceService, *mockRepos) {
	repo, mocks := newMockRepository(testEmployees...)
	svc := NewAttendanceService(repo, time.UTC, zap.NewNop()).(*attendanceService)
	svc.now = func() time.Time { return now }
	return svc, mocks
}

func submit(entries ...dto.AttendanceEntry) *dto.SubmitAttendanceRequest {
	return &dto.SubmitAttendanceRequest{Attendance: entries}
}

// ── SubmitAttendance 测试 ──

func TestAttendanceService_SubmitAndReadBack(t *testing.T) {
	svc, _ := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	req := submit(
		dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusPresent},
		dto.AttendanceEntry{EmployeeID: 2, Status: model.StatusAbsent},
		dto.AttendanceEntry{EmployeeID: 3, Status: model.StatusHoliday},
	)
	req.Date = "2024-06-01"

	res, err := svc.SubmitAttendance(ctx, req, "user-1")
	if err != nil {
		t.Fatalf("提交考勤失败: %v", err)
	}
	if res.Saved != 3 || res.Updated {
		t.Errorf("期望 saved=3 updated=false，实际 saved=%d updated=%v", res.Saved, res.Updated)
	}
	if len(res.Dates) != 1 || res.Dates[0] != "2024-06-01" {
		t.Errorf("期望 dates=[2024-06-01]，实际=%v", res.Dates)
	}

	got, err := svc.GetAttendanceForDate(ctx, "2024-06-01")
	if err != nil {
		t.Fatalf("读取考勤失败: %v", err)
	}
	if !got.Recorded || len(got.Attendance) != 3 {
		t.Fatalf("期望 3 条记录，实际=%d", len(got.Attendance))
	}
	want := map[int]string{1: model.StatusPresent, 2: model.StatusAbsent, 3: model.StatusHoliday}
	for _, r := range got.Attendance {
		if want[r.EmployeeID] != r.Status {
			t.Errorf("员工 %d 期望 %s，实际 %s", r.EmployeeID, want[r.EmployeeID], r.Status)
		}
	}

	summary, err := svc.GetMonthlySummary(ctx, 6, 0)
	if err != nil {
		t.Fatalf("月度汇总失败: %v", err)
	}
	if summary[1].Present != 1 || summary[1].Total != 1 {
		t.Errorf("员工 1 期望 present=1，实际=%+v", summary[1])
	}
	if summary[2].Absent != 1 || summary[2].Total != 1 {
		t.Errorf("员工 2 期望 absent=1，实际=%+v", summary[2])
	}
	if summary[3].Holidays != 1 || summary[3].Total != 1 {
		t.Errorf("员工 3 期望 holidays=1，实际=%+v", summary[3])
	}
}

func TestAttendanceService_Submit_DefaultsToToday(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC))

	res, err := svc.SubmitAttendance(context.Background(),
		submit(dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusPresent}), "")
	if err != nil {
		t.Fatalf("提交考勤失败: %v", err)
	}
	if res.Dates[0] != "2024-06-10" {
		t.Errorf("期望默认日期 2024-06-10，实际=%s", res.Dates[0])
	}
	if _, ok := mocks.attendance.records[attendanceKey{1, "2024-06-10"}]; !ok {
		t.Error("记录未写入当天")
	}
}

func TestAttendanceService_Submit_PerEntryDate(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	res, err := svc.SubmitAttendance(context.Background(), submit(
		dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusPresent, Date: "2024-06-03"},
		dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusHalfDay, Date: "2024-06-04"},
	), "")
	if err != nil {
		t.Fatalf("提交考勤失败: %v", err)
	}
	if len(res.Dates) != 2 || res.Dates[0] != "2024-06-03" || res.Dates[1] != "2024-06-04" {
		t.Errorf("期望按日期排序的两个日期，实际=%v", res.Dates)
	}
	if mocks.attendance.records[attendanceKey{1, "2024-06-04"}].Status != model.StatusHalfDay {
		t.Error("06-04 应记录为 Half Day")
	}
}

func TestAttendanceService_Submit_EditModeRequired(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	mocks.attendance.put(1, "2024-06-01", model.StatusPresent)

	req := submit(dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusAbsent})
	req.Date = "2024-06-01"

	_, err := svc.SubmitAttendance(context.Background(), req, "")
	if !errors.Is(err, ErrEditModeRequired) {
		t.Fatalf("期望 ErrEditModeRequired，实际: %v", err)
	}
	if mocks.attendance.records[attendanceKey{1, "2024-06-01"}].Status != model.StatusPresent {
		t.Error("未进入编辑模式时不应覆盖已有记录")
	}
}

func TestAttendanceService_Submit_EditOverwrites(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	mocks.attendance.put(1, "2024-06-01", model.StatusPresent)

	req := submit(dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusAbsent})
	req.Date = "2024-06-01"
	req.Edit = true

	res, err := svc.SubmitAttendance(context.Background(), req, "")
	if err != nil {
		t.Fatalf("编辑模式提交失败: %v", err)
	}
	if !res.Updated {
		t.Error("覆盖已有记录时 updated 应为 true")
	}
	if got := mocks.attendance.records[attendanceKey{1, "2024-06-01"}].Status; got != model.StatusAbsent {
		t.Errorf("期望覆盖为 Absent，实际=%s", got)
	}
	if len(mocks.attendance.records) != 1 {
		t.Errorf("同一员工同一天只能有一条记录，实际=%d", len(mocks.attendance.records))
	}
}

func TestAttendanceService_Submit_InvalidEntriesRejectWholeBatch(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	_, err := svc.SubmitAttendance(context.Background(), submit(
		dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusPresent},
		dto.AttendanceEntry{EmployeeID: 2, Status: "Late"},
		dto.AttendanceEntry{EmployeeID: 99, Status: model.StatusPresent},
		dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusAbsent},
		dto.AttendanceEntry{EmployeeID: 3, Status: model.StatusPresent, Date: "2024-13-01"},
	), "")

	if !errors.Is(err, ErrInvalidAttendance) {
		t.Fatalf("期望 ErrInvalidAttendance，实际: %v", err)
	}
	var verr *AttendanceValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 *AttendanceValidationError，实际: %T", err)
	}
	wantIdx := []int{1, 2, 3, 4}
	if len(verr.Entries) != len(wantIdx) {
		t.Fatalf("期望 %d 条非法条目，实际=%+v", len(wantIdx), verr.Entries)
	}
	for i, e := range verr.Entries {
		if e.Index != wantIdx[i] {
			t.Errorf("第 %d 条非法条目期望 index=%d，实际=%d", i, wantIdx[i], e.Index)
		}
	}
	if len(mocks.attendance.records) != 0 || mocks.attendance.upserts != 0 {
		t.Error("存在非法条目时不应写入任何记录")
	}
}

func TestAttendanceService_Submit_StatusIsCaseSensitive(t *testing.T) {
	svc, _ := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	_, err := svc.SubmitAttendance(context.Background(),
		submit(dto.AttendanceEntry{EmployeeID: 1, Status: "present"}), "")
	if !errors.Is(err, ErrInvalidAttendance) {
		t.Errorf("小写状态应被拒绝，实际: %v", err)
	}
}

func TestAttendanceService_Submit_Empty(t *testing.T) {
	svc, _ := setupTestAttendanceService(time.Now())

	_, err := svc.SubmitAttendance(context.Background(), submit(), "")
	if !errors.Is(err, ErrEmptyAttendanceSet) {
		t.Errorf("期望 ErrEmptyAttendanceSet，实际: %v", err)
	}
}

func TestAttendanceService_Submit_StoreFailure(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Now())
	mocks.attendance.upsertErr = errors.New("connection refused")

	_, err := svc.SubmitAttendance(context.Background(),
		submit(dto.AttendanceEntry{EmployeeID: 1, Status: model.StatusPresent}), "")
	if err == nil || errors.Is(err, ErrInvalidAttendance) {
		t.Errorf("存储失败应原样返回，实际: %v", err)
	}
}

// ── SetHoliday 测试 ──

func TestAttendanceService_SetHoliday(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	res, err := svc.SetHoliday(ctx, &dto.HolidayRequest{Date: "2024-06-15", Holiday: true}, "")
	if err != nil {
		t.Fatalf("设置假期失败: %v", err)
	}
	if res.Saved != len(testEmployees) {
		t.Errorf("期望写入 %d 条，实际=%d", len(testEmployees), res.Saved)
	}
	for _, e := range testEmployees {
		if got := mocks.attendance.records[attendanceKey{e.EmployeeID, "2024-06-15"}].Status; got != model.StatusHoliday {
			t.Errorf("员工 %d 期望 Holiday，实际=%s", e.EmployeeID, got)
		}
	}

	// 已记录日期需编辑模式才能取消
	if _, err := svc.SetHoliday(ctx, &dto.HolidayRequest{Date: "2024-06-15"}, ""); !errors.Is(err, ErrEditModeRequired) {
		t.Errorf("期望 ErrEditModeRequired，实际: %v", err)
	}
	if _, err := svc.SetHoliday(ctx, &dto.HolidayRequest{Date: "2024-06-15", Edit: true}, ""); err != nil {
		t.Fatalf("取消假期失败: %v", err)
	}
	if got := mocks.attendance.records[attendanceKey{1, "2024-06-15"}].Status; got != model.StatusAbsent {
		t.Errorf("取消假期后期望 Absent，实际=%s", got)
	}
}

func TestAttendanceService_SetHoliday_NoEmployees(t *testing.T) {
	repo, _ := newMockRepository()
	svc := NewAttendanceService(repo, time.UTC, zap.NewNop())

	_, err := svc.SetHoliday(context.Background(), &dto.HolidayRequest{Date: "2024-06-15", Holiday: true}, "")
	if !errors.Is(err, ErrNoEmployees) {
		t.Errorf("期望 ErrNoEmployees，实际: %v", err)
	}
}

// ── 查询测试 ──

func TestAttendanceService_ListEmployeesWithTodayStatus(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	res, err := svc.ListEmployeesWithTodayStatus(ctx)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if res.AttendanceRecorded {
		t.Error("今天尚无记录时 attendanceRecorded 应为 false")
	}
	if len(res.Employees) != 3 || res.Employees[0].EmployeeID != 1 {
		t.Errorf("期望按 ID 排序的 3 名员工，实际=%+v", res.Employees)
	}

	mocks.attendance.put(2, "2024-06-10", model.StatusPresent)
	res, _ = svc.ListEmployeesWithTodayStatus(ctx)
	if !res.AttendanceRecorded {
		t.Error("今天已有记录时 attendanceRecorded 应为 true")
	}
	if res.Date != "2024-06-10" {
		t.Errorf("期望 date=2024-06-10，实际=%s", res.Date)
	}
}

func TestAttendanceService_TodayUsesConfiguredZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	repo, _ := newMockRepository(testEmployees...)
	svc := NewAttendanceService(repo, loc, zap.NewNop()).(*attendanceService)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC) }

	if got := formatDate(svc.today()); got != "2024-06-11" {
		t.Errorf("UTC+8 下期望 2024-06-11，实际=%s", got)
	}
}

func TestAttendanceService_GetAttendanceMap(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Now())
	mocks.attendance.put(1, "2024-06-01", model.StatusHalfDay)

	res, err := svc.GetAttendanceMap(context.Background(), "2024-06-01")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if res.AttendanceData[1] != model.StatusHalfDay {
		t.Errorf("员工 1 期望 Half Day，实际=%s", res.AttendanceData[1])
	}
	if res.AttendanceData[2] != model.StatusAbsent || res.AttendanceData[3] != model.StatusAbsent {
		t.Errorf("未记录员工应为 Absent，实际=%v", res.AttendanceData)
	}
	if !res.Recorded {
		t.Error("recorded 应为 true")
	}
}

func TestAttendanceService_InvalidDate(t *testing.T) {
	svc, _ := setupTestAttendanceService(time.Now())
	ctx := context.Background()

	for _, d := range []string{"", "2024-02-30", "06/01/2024", "tomorrow"} {
		if _, err := svc.GetAttendanceForDate(ctx, d); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("日期 %q 期望 ErrInvalidDate，实际: %v", d, err)
		}
	}
}

func TestAttendanceService_MonthlySummary_YearScoping(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Now())
	mocks.attendance.put(1, "2023-06-05", model.StatusPresent)
	mocks.attendance.put(1, "2024-06-05", model.StatusPresent)
	mocks.attendance.put(1, "2024-06-06", model.StatusHalfDay)
	mocks.attendance.put(1, "2024-07-01", model.StatusPresent)
	ctx := context.Background()

	all, err := svc.GetMonthlySummary(ctx, 6, 0)
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	if all[1].Present != 2 || all[1].HalfDay != 1 || all[1].Total != 3 {
		t.Errorf("不区分年份期望 present=2 halfDay=1，实际=%+v", all[1])
	}

	scoped, _ := svc.GetMonthlySummary(ctx, 6, 2024)
	if scoped[1].Present != 1 || scoped[1].Total != 2 {
		t.Errorf("2024 年期望 present=1 total=2，实际=%+v", scoped[1])
	}

	// 无记录的员工同样出现在汇总中
	if s, ok := scoped[2]; !ok || s.Total != 0 {
		t.Errorf("员工 2 应以全零出现，实际=%+v ok=%v", s, ok)
	}
}

func TestAttendanceService_MonthlySummary_InvalidMonth(t *testing.T) {
	svc, _ := setupTestAttendanceService(time.Now())
	for _, m := range []int{0, 13, -1} {
		if _, err := svc.GetMonthlySummary(context.Background(), m, 0); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("月份 %d 期望 ErrInvalidMonth，实际: %v", m, err)
		}
	}
}

func TestAttendanceService_GetMonthlyReport_SortedWithNames(t *testing.T) {
	svc, mocks := setupTestAttendanceService(time.Now())
	mocks.attendance.put(3, "2024-06-01", model.StatusPresent)

	rows, err := svc.GetMonthlyReport(context.Background(), 6, 2024)
	if err != nil {
		t.Fatalf("报表失败: %v", err)
	}
	if len(rows) != 3 || rows[0].EmployeeID != 1 || rows[2].Name != "Chen" || rows[2].Present != 1 {
		t.Errorf("报表内容不符合预期: %+v", rows)
	}
}

func TestParseMonthParam(t *testing.T) {
	tests := []struct {
		in        string
		month     int
		year      int
		expectErr bool
	}{
		{"6", 6, 0, false},
		{"06", 6, 0, false},
		{"12", 12, 0, false},
		{"2024-06", 6, 2024, false},
		{"0", 0, 0, true},
		{"13", 0, 0, true},
		{"2024-13", 0, 0, true},
		{"june", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, y, err := ParseMonthParam(tt.in)
			if (err != nil) != tt.expectErr {
				t.Fatalf("期望 err=%v，实际: %v", tt.expectErr, err)
			}
			if m != tt.month || y != tt.year {
				t.Errorf("期望 (%d,%d)，实际 (%d,%d)", tt.month, tt.year, m, y)
			}
		})
	}
}
