package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizops/internal/dto"
	"bizops/internal/model"
	"bizops/internal/repository"
	pkgerrors "bizops/pkg/errors"
)

// ── 库存模块业务错误 ──

var (
	ErrStockItemNotFound = errors.New("库存条目不存在")
	ErrStockItemExists   = errors.New("库存编号已存在")
	ErrStockIDImmutable  = errors.New("库存编号不可修改")
	ErrInvalidStockItem  = errors.New("库存数据无效")
	ErrStockItemConflict = errors.New("库存条目已被其他操作修改，请刷新后重试")
)

// StockService 库存业务接口
type StockService interface {
	Create(ctx context.Context, req *dto.CreateStockItemRequest, callerID string) (*dto.StockItemResponse, error)
	List(ctx context.Context, search string) ([]dto.StockItemResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStockItemRequest, callerID string) (*dto.StockItemResponse, error)
	Delete(ctx context.Context, id string) error
}

type stockService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStockService 创建 StockService 实例
func NewStockService(repo *repository.Repository, logger *zap.Logger) StockService {
	return &stockService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *stockService) Create(ctx context.Context, req *dto.CreateStockItemRequest, callerID string) (*dto.StockItemResponse, error) {
	item := &model.StockItem{
		ID:              strings.TrimSpace(req.ID),
		Name:            strings.TrimSpace(req.Name),
		Colour:          strings.TrimSpace(req.Colour),
		TotalQuantity:   req.TotalQuantity,
		BalanceQuantity: req.BalanceQuantity,
		RackNo:          strings.TrimSpace(req.RackNo),
		Size:            strings.TrimSpace(req.Size),
		BulkRetail:      req.BulkRetail,
	}
	if item.BulkRetail == "" {
		item.BulkRetail = model.BulkRetailBulk
	}
	if err := validateStockItem(item); err != nil {
		return nil, err
	}

	// 1. 编号唯一
	_, err := s.repo.Stock.GetByID(ctx, item.ID)
	if err == nil {
		return nil, ErrStockItemExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询库存失败", zap.String("id", item.ID), zap.Error(err))
		return nil, err
	}

	if callerID != "" {
		item.CreatedBy = &callerID
		item.UpdatedBy = &callerID
	}

	if err := s.repo.Stock.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStockItemExists
		}
		s.logger.Error("创建库存失败", zap.String("id", item.ID), zap.Error(err))
		return nil, err
	}

	return toStockItemResponse(item), nil
}

// ────────────────────── List ──────────────────────

func (s *stockService) List(ctx context.Context, search string) ([]dto.StockItemResponse, error) {
	items, err := s.repo.Stock.List(ctx, search)
	if err != nil {
		s.logger.Error("列出库存失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StockItemResponse, 0, len(items))
	for i := range items {
		result = append(result, *toStockItemResponse(&items[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *stockService) Update(ctx context.Context, id string, req *dto.UpdateStockItemRequest, callerID string) (*dto.StockItemResponse, error) {
	if req.ID != nil && strings.TrimSpace(*req.ID) != id {
		return nil, ErrStockIDImmutable
	}

	item, err := s.repo.Stock.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockItemNotFound
		}
		s.logger.Error("查询库存失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Colour != nil {
		item.Colour = strings.TrimSpace(*req.Colour)
	}
	if req.TotalQuantity != nil {
		item.TotalQuantity = *req.TotalQuantity
	}
	if req.BalanceQuantity != nil {
		item.BalanceQuantity = *req.BalanceQuantity
	}
	if req.RackNo != nil {
		item.RackNo = strings.TrimSpace(*req.RackNo)
	}
	if req.Size != nil {
		item.Size = strings.TrimSpace(*req.Size)
	}
	if req.BulkRetail != nil {
		item.BulkRetail = *req.BulkRetail
	}
	if err := validateStockItem(item); err != nil {
		return nil, err
	}

	if callerID != "" {
		item.UpdatedBy = &callerID
	}

	if err := s.repo.Stock.Update(ctx, item); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrStockItemConflict
		}
		s.logger.Error("更新库存失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toStockItemResponse(item), nil
}

// ────────────────────── Delete ──────────────────────

func (s *stockService) Delete(ctx context.Context, id string) error {
	n, err := s.repo.Stock.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除库存失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrStockItemNotFound
	}
	return nil
}

// ── 内部辅助方法 ──

// validateStockItem 仅做必填与正数校验，不校验 total/balance 之间的关系
func validateStockItem(item *model.StockItem) error {
	switch {
	case item.ID == "":
		return fmt.Errorf("%w: id 不能为空", ErrInvalidStockItem)
	case item.Name == "":
		return fmt.Errorf("%w: name 不能为空", ErrInvalidStockItem)
	case item.Colour == "":
		return fmt.Errorf("%w: colour 不能为空", ErrInvalidStockItem)
	case item.TotalQuantity <= 0:
		return fmt.Errorf("%w: total_quantity 必须大于 0", ErrInvalidStockItem)
	case item.BalanceQuantity < 0:
		return fmt.Errorf("%w: balance_quantity 不能为负数", ErrInvalidStockItem)
	case item.BulkRetail != model.BulkRetailBulk && item.BulkRetail != model.BulkRetailRetail:
		return fmt.Errorf("%w: bulk_retail 只能为 bulk 或 retail", ErrInvalidStockItem)
	}
	return nil
}

func toStockItemResponse(item *model.StockItem) *dto.StockItemResponse {
	return &dto.StockItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Colour:          item.Colour,
		TotalQuantity:   item.TotalQuantity,
		BalanceQuantity: item.BalanceQuantity,
		RackNo:          item.RackNo,
		Size:            item.Size,
		BulkRetail:      item.BulkRetail,
		CreatedAt:       item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
