package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
)

// EmployeeListParams 员工列表查询
type EmployeeListParams struct {
	Status  string
	Role    string
	Keyword string
	Page    int
	Size    int
}

// EmployeeRequest 新增/修改员工，空字段不发送
type EmployeeRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Position string `json:"position,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
	Remark   string `json:"remark,omitempty"`
}

// LeaveRequest 请假登记
type LeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// OvertimeRequest 加班登记
type OvertimeRequest struct {
	Date   string          `json:"date"`
	Hours  decimal.Decimal `json:"hours"`
	Reason string          `json:"reason,omitempty"`
}

// ListEmployees GET /employees
func (c *Client) ListEmployees(ctx context.Context, params EmployeeListParams) (*Page[entity.Employee], error) {
	q := url.Values{}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Role != "" {
		q.Set("role", params.Role)
	}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	setPaging(q, params.Page, params.Size)

	var page Page[entity.Employee]
	if err := c.doRequest(ctx, http.MethodGet, "/employees", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateEmployee POST /employees
func (c *Client) CreateEmployee(ctx context.Context, req EmployeeRequest) (*entity.Employee, error) {
	var emp entity.Employee
	if err := c.doRequest(ctx, http.MethodPost, "/employees", nil, req, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// UpdateEmployee PUT /employees/{id}
func (c *Client) UpdateEmployee(ctx context.Context, id int64, req EmployeeRequest) (*entity.Employee, error) {
	var emp entity.Employee
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/employees/%d", id), nil, req, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// DeleteEmployee DELETE /employees/{id}
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/employees/%d", id), nil, nil, nil)
}

// ListLeaves GET /employees/{id}/leave
func (c *Client) ListLeaves(ctx context.Context, employeeID int64) ([]entity.LeaveRecord, error) {
	var records []entity.LeaveRecord
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/employees/%d/leave", employeeID), nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddLeave POST /employees/{id}/leave
func (c *Client) AddLeave(ctx context.Context, employeeID int64, req LeaveRequest) (*entity.LeaveRecord, error) {
	var record entity.LeaveRecord
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/employees/%d/leave", employeeID), nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListOvertimes GET /employees/{id}/overtime
func (c *Client) ListOvertimes(ctx context.Context, employeeID int64) ([]entity.OvertimeRecord, error) {
	var records []entity.OvertimeRecord
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/employees/%d/overtime", employeeID), nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddOvertime POST /employees/{id}/overtime
func (c *Client) AddOvertime(ctx context.Context, employeeID int64, req OvertimeRequest) (*entity.OvertimeRecord, error) {
	var record entity.OvertimeRecord
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/employees/%d/overtime", employeeID), nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
