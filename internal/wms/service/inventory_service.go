package service

import (
	"context"
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetStockStatus 库存数量低于阈值为低库存
func GetStockStatus(quantity decimal.Decimal) entity.StockStatus {
	if quantity.LessThan(decimal.NewFromInt(entity.LowStockThreshold)) {
		return entity.StockStatus{Label: "Low Stock", Severity: entity.SeverityError}
	}
	return entity.StockStatus{Label: "In Stock", Severity: entity.SeveritySuccess}
}

// InventoryRow 带库存状态的库存行
type InventoryRow struct {
	entity.InventoryItem
	Status entity.StockStatus `json:"status"`
}

// InventoryPage 库存列表
type InventoryPage struct {
	Items []InventoryRow `json:"items"`
	Total int64          `json:"total"`
}

// InventoryQuery 库存列表查询
type InventoryQuery struct {
	apiclient.InventoryListParams
	// LowStock 只保留当前页中的低库存行
	LowStock bool
}

type InventoryService struct {
	api    *apiclient.Client
	logger *zap.Logger
}

func NewInventoryService(api *apiclient.Client, logger *zap.Logger) *InventoryService {
	return &InventoryService{api: api, logger: logger}
}

func (s *InventoryService) List(ctx context.Context, q InventoryQuery) (*InventoryPage, error) {
	page, err := s.api.ListInventory(ctx, q.InventoryListParams)
	if err != nil {
		return nil, err
	}

	result := &InventoryPage{Items: make([]InventoryRow, 0, len(page.Items)), Total: page.Total}
	for _, item := range page.Items {
		status := GetStockStatus(item.Quantity)
		if q.LowStock && status.Severity != entity.SeverityError {
			continue
		}
		result.Items = append(result.Items, InventoryRow{InventoryItem: item, Status: status})
	}
	if q.LowStock {
		result.Total = int64(len(result.Items))
	}
	return result, nil
}

func (s *InventoryService) Create(ctx context.Context, req apiclient.InventoryRequest) (*entity.InventoryItem, error) {
	req.Material = strings.TrimSpace(req.Material)
	req.Specification = strings.TrimSpace(req.Specification)
	if req.Material == "" || req.Specification == "" {
		return nil, apiclient.Validation("material and specification are required")
	}
	if req.Quantity.IsNegative() {
		return nil, apiclient.Validation("quantity must not be negative")
	}
	if req.Density.Valid && !req.Density.Decimal.IsPositive() {
		return nil, apiclient.Validation("density must be positive")
	}
	return s.api.CreateInventory(ctx, req)
}

// UpdateItem 修改数量/密度后重新拉取列表，不做本地乐观更新
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, req apiclient.InventoryUpdateRequest, refresh InventoryQuery) (*InventoryPage, error) {
	if req.Quantity.IsNegative() {
		return nil, apiclient.Validation("quantity must not be negative")
	}
	if req.Density.Valid && !req.Density.Decimal.IsPositive() {
		return nil, apiclient.Validation("density must be positive")
	}
	if err := s.api.UpdateInventory(ctx, id, req); err != nil {
		return nil, err
	}
	return s.List(ctx, refresh)
}

func (s *InventoryService) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.api.DeleteInventory(ctx, id)
}

func (s *InventoryService) Materials(ctx context.Context) ([]string, error) {
	return s.api.ListMaterials(ctx)
}

func (s *InventoryService) Specifications(ctx context.Context, material string) ([]string, error) {
	if strings.TrimSpace(material) == "" {
		return nil, apiclient.Validation("material is required")
	}
	return s.api.ListSpecifications(ctx, material)
}

// Export 直接转发服务端生成的文件
func (s *InventoryService) Export(ctx context.Context) ([]byte, string, error) {
	return s.api.ExportInventory(ctx)
}
