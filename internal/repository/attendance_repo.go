package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizops/internal/model"
)

// AttendanceRepository 考勤记录数据访问接口
type AttendanceRepository interface {
	// Upsert 按 (employee_id, date) 写入，已存在则覆盖状态
	Upsert(ctx context.Context, records []model.AttendanceRecord) error
	ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error)
	// CountByDates 返回每个日期已有的记录数（无记录的日期不出现在结果中）
	CountByDates(ctx context.Context, dates []time.Time) (map[string]int64, error)
	// CountByStatus 统计 [from, to) 区间内每名员工各状态的天数
	CountByStatus(ctx context.Context, from, to time.Time) ([]model.StatusCount, error)
	// CountByStatusForMonth 统计所有年份中第 month 月的天数（不区分年份）
	CountByStatusForMonth(ctx context.Context, month int) ([]model.StatusCount, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Upsert(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":      gorm.Expr("EXCLUDED.status"),
				"recorded_by": gorm.Expr("EXCLUDED.recorded_by"),
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).
		Omit(clause.Associations).
		Create(&records).Error
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format(model.DateLayout)).
		Order("employee_id ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) CountByDates(ctx context.Context, dates []time.Time) (map[string]int64, error) {
	result := make(map[string]int64)
	if len(dates) == 0 {
		return result, nil
	}

	days := make([]string, 0, len(dates))
	for _, d := range dates {
		days = append(days, d.Format(model.DateLayout))
	}

	var rows []struct {
		Day   string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("TO_CHAR(date, 'YYYY-MM-DD') AS day, COUNT(*) AS total").
		Where("date IN ?", days).
		Group("date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.Day] = row.Total
	}
	return result, nil
}

func (r *attendanceRepo) CountByStatus(ctx context.Context, from, to time.Time) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("employee_id, status, COUNT(*) AS count").
		Where("date >= ? AND date < ?", from.Format(model.DateLayout), to.Format(model.DateLayout)).
		Group("employee_id, status").
		Order("employee_id ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *attendanceRepo) CountByStatusForMonth(ctx context.Context, month int) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("employee_id, status, COUNT(*) AS count").
		Where("EXTRACT(MONTH FROM date) = ?", month).
		Group("employee_id, status").
		Order("employee_id ASC").
		Scan(&counts).Error
	return counts, err
}
