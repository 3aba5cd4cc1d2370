package dto

// ── 库存模块 DTO ──

// CreateStockItemRequest 创建库存条目
type CreateStockItemRequest struct {
	ID              string `json:"id"               binding:"required,notblank,max=64"`
	Name            string `json:"name"             binding:"required,notblank,max=200"`
	Colour          string `json:"colour"           binding:"required,notblank,max=50"`
	TotalQuantity   int    `json:"total_quantity"   binding:"required,gt=0"`
	BalanceQuantity int    `json:"balance_quantity" binding:"min=0"`
	RackNo          string `json:"rack_no"          binding:"max=50"`
	Size            string `json:"size"             binding:"max=50"`
	BulkRetail      string `json:"bulk_retail"      binding:"omitempty,bulk_retail"`
}

// UpdateStockItemRequest 更新库存条目（字段级部分更新，ID 不可修改）
type UpdateStockItemRequest struct {
	ID              *string `json:"id"`
	Name            *string `json:"name"             binding:"omitempty,notblank,max=200"`
	Colour          *string `json:"colour"           binding:"omitempty,notblank,max=50"`
	TotalQuantity   *int    `json:"total_quantity"   binding:"omitempty,gt=0"`
	BalanceQuantity *int    `json:"balance_quantity" binding:"omitempty,min=0"`
	RackNo          *string `json:"rack_no"          binding:"omitempty,max=50"`
	Size            *string `json:"size"             binding:"omitempty,max=50"`
	BulkRetail      *string `json:"bulk_retail"      binding:"omitempty,bulk_retail"`
}

// StockItemResponse 库存条目响应
type StockItemResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Colour          string `json:"colour"`
	TotalQuantity   int    `json:"total_quantity"`
	BalanceQuantity int    `json:"balance_quantity"`
	RackNo          string `json:"rack_no"`
	Size            string `json:"size"`
	BulkRetail      string `json:"bulk_retail"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}
