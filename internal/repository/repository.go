package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Session    SessionRepository
	Employee   EmployeeRepository
	Attendance AttendanceRepository
	Stock      StockRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Session:    NewSessionRepo(db),
		Employee:   NewEmployeeRepo(db),
		Attendance: NewAttendanceRepo(db),
		Stock:      NewStockRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在事务中执行 fn，fn 返回错误或 panic 时回滚
// db 为 nil（单元测试中的 mock 聚合）时直接在当前 Repository 上执行
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
