package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"bizops/internal/dto"
	"bizops/internal/service"
	"bizops/pkg/response"
)

// StockHandler 库存模块 HTTP 处理器
type StockHandler struct {
	stockSvc service.StockService
}

// NewStockHandler 创建 StockHandler
func NewStockHandler(stockSvc service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// ListStock 库存列表
// GET /stock[?search=]
func (h *StockHandler) ListStock(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	items, err := h.stockSvc.List(c.Request.Context(), q.Search)
	if err != nil {
		h.handleStockError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// CreateStock 新增库存条目
// POST /stock
func (h *StockHandler) CreateStock(c *gin.Context) {
	var req dto.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	item, err := h.stockSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleStockError(c, err)
		return
	}

	response.Created(c, item)
}

// UpdateStock 更新库存条目
// PUT /stock/:id
func (h *StockHandler) UpdateStock(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, 10001, "库存编号不能为空")
		return
	}

	var req dto.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	item, err := h.stockSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleStockError(c, err)
		return
	}

	response.OK(c, item)
}

// DeleteStock 删除库存条目
// DELETE /stock/:id
func (h *StockHandler) DeleteStock(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, 10001, "库存编号不能为空")
		return
	}

	if err := h.stockSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleStockError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *StockHandler) handleStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStockItemNotFound):
		response.NotFound(c, 13001, "库存条目不存在")
	case errors.Is(err, service.ErrStockItemExists):
		response.Conflict(c, 13002, "库存编号已存在")
	case errors.Is(err, service.ErrStockIDImmutable):
		response.BadRequest(c, 13003, "库存编号不可修改")
	case errors.Is(err, service.ErrStockItemConflict):
		response.Conflict(c, 13005, "库存条目已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrInvalidStockItem):
		response.BadRequest(c, 13004, err.Error())
	default:
		response.InternalError(c)
	}
}
