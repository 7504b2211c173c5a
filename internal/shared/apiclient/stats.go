package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

// Stats GET /stats/{kind}，原样返回 data
func (c *Client) Stats(ctx context.Context, kind string) (json.RawMessage, error) {
	if !entity.ValidStatsKind(kind) {
		return nil, Validation("unknown stats kind: %s", kind)
	}
	var raw json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, "/stats/"+kind, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// DashboardStats GET /stats/dashboard
func (c *Client) DashboardStats(ctx context.Context) (*entity.DashboardStats, error) {
	var stats entity.DashboardStats
	if err := c.doRequest(ctx, http.MethodGet, "/stats/dashboard", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SalesTrend GET /stats/sales
func (c *Client) SalesTrend(ctx context.Context) ([]entity.SalesPoint, error) {
	var points []entity.SalesPoint
	if err := c.doRequest(ctx, http.MethodGet, "/stats/sales", nil, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// InventoryByMaterial GET /stats/inventory
func (c *Client) InventoryByMaterial(ctx context.Context) ([]entity.MaterialStock, error) {
	var stocks []entity.MaterialStock
	if err := c.doRequest(ctx, http.MethodGet, "/stats/inventory", nil, nil, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}
