package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"bizops/internal/model"
	pkgerrors "bizops/pkg/errors"
)

// StockRepository 库存数据访问接口
type StockRepository interface {
	Create(ctx context.Context, item *model.StockItem) error
	GetByID(ctx context.Context, id string) (*model.StockItem, error)
	List(ctx context.Context, search string) ([]model.StockItem, error)
	// Update 乐观锁更新，冲突时返回 pkgerrors.ErrOptimisticLock
	Update(ctx context.Context, item *model.StockItem) error
	// Delete 返回实际删除的行数
	Delete(ctx context.Context, id string) (int64, error)
}

type stockRepo struct {
	db *gorm.DB
}

// NewStockRepo 创建 StockRepository 实例
func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) Create(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockRepo) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List search 不为空时在 id/名称/颜色/货架号/尺码/批零类型中做不区分大小写的模糊匹配
func (r *stockRepo) List(ctx context.Context, search string) ([]model.StockItem, error) {
	var items []model.StockItem
	db := r.db.WithContext(ctx)

	if s := strings.TrimSpace(search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		db = db.Where(
			`LOWER(id) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\' OR LOWER(colour) LIKE ? ESCAPE '\' OR `+
				`LOWER(rack_no) LIKE ? ESCAPE '\' OR LOWER(size) LIKE ? ESCAPE '\' OR LOWER(bulk_retail) LIKE ? ESCAPE '\'`,
			like, like, like, like, like, like,
		)
	}

	err := db.Order("id ASC").Find(&items).Error
	return items, err
}

// likeEscaper 转义 LIKE 通配符，搜索词按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update 以读取时的 updated_at 作为版本条件，期间被他人修改时返回 ErrOptimisticLock
func (r *stockRepo) Update(ctx context.Context, item *model.StockItem) error {
	oldUpdatedAt := item.UpdatedAt
	now := time.Now().UTC().Truncate(time.Microsecond) // 与 TIMESTAMPTZ 精度一致
	result := r.db.WithContext(ctx).
		Model(&model.StockItem{}).
		Where("id = ? AND updated_at = ?", item.ID, oldUpdatedAt).
		Updates(map[string]interface{}{
			"name":             item.Name,
			"colour":           item.Colour,
			"total_quantity":   item.TotalQuantity,
			"balance_quantity": item.BalanceQuantity,
			"rack_no":          item.RackNo,
			"size":             item.Size,
			"bulk_retail":      item.BulkRetail,
			"updated_by":       item.UpdatedBy,
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	item.UpdatedAt = now
	return nil
}

func (r *stockRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.StockItem{})
	return res.RowsAffected, res.Error
}
