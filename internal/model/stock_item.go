package model

// 批发/零售标记
const (
	BulkRetailBulk   = "bulk"
	BulkRetailRetail = "retail"
)

// StockItem 库存表 — 对应 stock_items
// ID 由用户录入，创建后不可修改；balance_quantity 与 total_quantity 之间无派生关系
type StockItem struct {
	ID              string `gorm:"type:varchar(64);primaryKey"            json:"id"`
	Name            string `gorm:"type:varchar(200);not null"             json:"name"`
	Colour          string `gorm:"type:varchar(50);not null"              json:"colour"`
	TotalQuantity   int    `gorm:"not null"                               json:"total_quantity"`
	BalanceQuantity int    `gorm:"not null;default:0"                     json:"balance_quantity"`
	RackNo          string `gorm:"type:varchar(50);not null;default:''"   json:"rack_no"`
	Size            string `gorm:"type:varchar(50);not null;default:''"   json:"size"`
	BulkRetail      string `gorm:"type:varchar(10);not null;default:'bulk'" json:"bulk_retail"`
	AuditModel
}

// TableName 指定表名
func (StockItem) TableName() string { return "stock_items" }
