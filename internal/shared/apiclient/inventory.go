package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
)

// =============================================================================
// 库存: /inventory
// =============================================================================

// InventoryListParams 库存列表查询
type InventoryListParams struct {
	Material      string
	Specification string
	Keyword       string
	Page          int
	Size          int
}

func (p InventoryListParams) values() url.Values {
	q := url.Values{}
	if p.Material != "" {
		q.Set("material", p.Material)
	}
	if p.Specification != "" {
		q.Set("specification", p.Specification)
	}
	if p.Keyword != "" {
		q.Set("keyword", p.Keyword)
	}
	setPaging(q, p.Page, p.Size)
	return q
}

// InventoryRequest 新增库存行
type InventoryRequest struct {
	Material      string              `json:"material"`
	Specification string              `json:"specification"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Density       decimal.NullDecimal `json:"density"`
}

// InventoryUpdateRequest 数量/密度修正
type InventoryUpdateRequest struct {
	Quantity decimal.Decimal     `json:"quantity"`
	Density  decimal.NullDecimal `json:"density"`
}

// ImportSummary 批量导入结果
type ImportSummary struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ListInventory GET /inventory
func (c *Client) ListInventory(ctx context.Context, params InventoryListParams) (*Page[entity.InventoryItem], error) {
	var page Page[entity.InventoryItem]
	if err := c.doRequest(ctx, http.MethodGet, "/inventory", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateInventory POST /inventory
func (c *Client) CreateInventory(ctx context.Context, req InventoryRequest) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	if err := c.doRequest(ctx, http.MethodPost, "/inventory", nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventory PUT /inventory/{id}
func (c *Client) UpdateInventory(ctx context.Context, id int64, req InventoryUpdateRequest) error {
	return c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/inventory/%d", id), nil, req, nil)
}

// DeleteInventory DELETE /inventory/{id}
func (c *Client) DeleteInventory(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/inventory/%d", id), nil, nil, nil)
}

// ListMaterials GET /inventory/materials
func (c *Client) ListMaterials(ctx context.Context) ([]string, error) {
	var materials []string
	if err := c.doRequest(ctx, http.MethodGet, "/inventory/materials", nil, nil, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// ListSpecifications GET /inventory/materials?material=xxx
func (c *Client) ListSpecifications(ctx context.Context, material string) ([]string, error) {
	var specs []string
	q := url.Values{"material": []string{material}}
	if err := c.doRequest(ctx, http.MethodGet, "/inventory/materials", q, nil, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// ImportInventory POST /inventory/import，整批提交，逐行校验由服务端负责
func (c *Client) ImportInventory(ctx context.Context, items []InventoryRequest) (*ImportSummary, error) {
	var summary ImportSummary
	body := map[string]interface{}{"items": items}
	if err := c.doRequest(ctx, http.MethodPost, "/inventory/import", nil, body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ExportInventory GET /inventory/export
func (c *Client) ExportInventory(ctx context.Context) ([]byte, string, error) {
	return c.doDownload(ctx, "/inventory/export")
}
