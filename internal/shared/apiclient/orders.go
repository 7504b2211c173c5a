package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

// =============================================================================
// 订单: /orders
// =============================================================================

// OrderListParams 订单列表查询
type OrderListParams struct {
	Keyword     string
	OrderNumber string
	OrderType   string
	CustomerID  int64
	Page        int
	Size        int
}

func (p OrderListParams) values() url.Values {
	q := url.Values{}
	if p.Keyword != "" {
		q.Set("keyword", p.Keyword)
	}
	if p.OrderNumber != "" {
		q.Set("order_number", p.OrderNumber)
	}
	if p.OrderType != "" {
		q.Set("order_type", p.OrderType)
	}
	if p.CustomerID > 0 {
		q.Set("customer_id", fmt.Sprint(p.CustomerID))
	}
	setPaging(q, p.Page, p.Size)
	return q
}

// CreateOrderRequest 新建订单
type CreateOrderRequest struct {
	OrderType  string             `json:"order_type"`
	CustomerID int64              `json:"customer_id"`
	Remark     string             `json:"remark,omitempty"`
	Items      []entity.OrderItem `json:"items"`
}

// EditOrderRequest 整单编辑（明细、客户）
type EditOrderRequest struct {
	CustomerID int64              `json:"customer_id"`
	Remark     string             `json:"remark,omitempty"`
	Items      []entity.OrderItem `json:"items"`
}

// OrderStatusRequest 状态更新；nil 字段不发送
type OrderStatusRequest struct {
	OrderType   *string `json:"order_type,omitempty"`
	IsPaid      *bool   `json:"is_paid,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
	Remark      *string `json:"remark,omitempty"`
}

// ListOrders GET /orders
func (c *Client) ListOrders(ctx context.Context, params OrderListParams) (*Page[entity.Order], error) {
	var page Page[entity.Order]
	if err := c.doRequest(ctx, http.MethodGet, "/orders", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetOrder GET /orders/{id}
func (c *Client) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder POST /orders
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*entity.Order, error) {
	var order entity.Order
	if err := c.doRequest(ctx, http.MethodPost, "/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus PUT /orders/{id}
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, req OrderStatusRequest) (*entity.Order, error) {
	var order entity.Order
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// EditOrder PUT /orders/{id}/edit
func (c *Client) EditOrder(ctx context.Context, id int64, req EditOrderRequest) (*entity.Order, error) {
	var order entity.Order
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/edit", id), nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder DELETE /orders/{id}
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil, nil)
}

// OrderPDF GET /orders/{id}/pdf，返回文件内容和 Content-Type
func (c *Client) OrderPDF(ctx context.Context, id int64) ([]byte, string, error) {
	return c.doDownload(ctx, fmt.Sprintf("/orders/%d/pdf", id))
}
