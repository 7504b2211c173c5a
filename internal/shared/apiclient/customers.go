package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

// CustomerListParams 客户列表查询
type CustomerListParams struct {
	Keyword string
	Page    int
	Size    int
}

// CustomerRequest 新增/修改客户
type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Remark  string `json:"remark,omitempty"`
}

// ListCustomers GET /customers
func (c *Client) ListCustomers(ctx context.Context, params CustomerListParams) (*Page[entity.Customer], error) {
	q := url.Values{}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	setPaging(q, params.Page, params.Size)

	var page Page[entity.Customer]
	if err := c.doRequest(ctx, http.MethodGet, "/customers", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCustomer GET /customers/{id}
func (c *Client) GetCustomer(ctx context.Context, id int64) (*entity.Customer, error) {
	var customer entity.Customer
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer POST /customers
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*entity.Customer, error) {
	var customer entity.Customer
	if err := c.doRequest(ctx, http.MethodPost, "/customers", nil, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer PUT /customers/{id}
func (c *Client) UpdateCustomer(ctx context.Context, id int64, req CustomerRequest) (*entity.Customer, error) {
	var customer entity.Customer
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), nil, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer DELETE /customers/{id}
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil, nil)
}
