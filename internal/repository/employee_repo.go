package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizops/internal/model"
)

// EmployeeRepository 员工数据访问接口
// HTTP 接口只读，Upsert 仅供命令行导入使用
type EmployeeRepository interface {
	List(ctx context.Context) ([]model.Employee, error)
	ListIDs(ctx context.Context, ids []int) ([]int, error)
	// Upsert 按 employee_id 写入，已存在则更新姓名
	Upsert(ctx context.Context, employees []model.Employee) error
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Order("employee_id ASC").
		Find(&employees).Error
	return employees, err
}

// ListIDs 返回 ids 中实际存在的员工 ID
func (r *employeeRepo) ListIDs(ctx context.Context, ids []int) ([]int, error) {
	var found []int
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id IN ?", ids).
		Pluck("employee_id", &found).Error
	return found, err
}

func (r *employeeRepo) Upsert(ctx context.Context, employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		CreateInBatches(&employees, 200).Error
}
