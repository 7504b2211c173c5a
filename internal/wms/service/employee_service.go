package service

import (
	"context"
	"strings"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

const dateLayout = "2006-01-02"

type EmployeeService struct {
	api *apiclient.Client
}

func NewEmployeeService(api *apiclient.Client) *EmployeeService {
	return &EmployeeService{api: api}
}

func (s *EmployeeService) List(ctx context.Context, params apiclient.EmployeeListParams) (*apiclient.Page[entity.Employee], error) {
	return s.api.ListEmployees(ctx, params)
}

// PendingUsers 待审批的注册用户
func (s *EmployeeService) PendingUsers(ctx context.Context, page, size int) (*apiclient.Page[entity.Employee], error) {
	return s.api.ListEmployees(ctx, apiclient.EmployeeListParams{Status: entity.UserStatusPending, Page: page, Size: size})
}

func validateEmployee(req apiclient.EmployeeRequest) error {
	if req.Role != "" && !entity.ValidRole(req.Role) {
		return apiclient.Validation("invalid role: %s", req.Role)
	}
	switch req.Status {
	case "", entity.UserStatusActive, entity.UserStatusPending, entity.UserStatusInactive:
	default:
		return apiclient.Validation("invalid status: %s", req.Status)
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, req apiclient.EmployeeRequest) (*entity.Employee, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, apiclient.Validation("username and password are required")
	}
	if err := validateEmployee(req); err != nil {
		return nil, err
	}
	return s.api.CreateEmployee(ctx, req)
}

func (s *EmployeeService) Update(ctx context.Context, id int64, req apiclient.EmployeeRequest) (*entity.Employee, error) {
	if err := validateEmployee(req); err != nil {
		return nil, err
	}
	return s.api.UpdateEmployee(ctx, id, req)
}

func (s *EmployeeService) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.api.DeleteEmployee(ctx, id)
}

// ApproveUser 审批通过注册用户
func (s *EmployeeService) ApproveUser(ctx context.Context, id int64) (*entity.Employee, error) {
	return s.api.UpdateEmployee(ctx, id, apiclient.EmployeeRequest{Status: entity.UserStatusActive})
}

func (s *EmployeeService) Leaves(ctx context.Context, employeeID int64) ([]entity.LeaveRecord, error) {
	return s.api.ListLeaves(ctx, employeeID)
}

func (s *EmployeeService) AddLeave(ctx context.Context, employeeID int64, req apiclient.LeaveRequest) (*entity.LeaveRecord, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apiclient.Validation("invalid start date %q", req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apiclient.Validation("invalid end date %q", req.EndDate)
	}
	if end.Before(start) {
		return nil, apiclient.Validation("end date is before start date")
	}
	return s.api.AddLeave(ctx, employeeID, req)
}

func (s *EmployeeService) Overtimes(ctx context.Context, employeeID int64) ([]entity.OvertimeRecord, error) {
	return s.api.ListOvertimes(ctx, employeeID)
}

func (s *EmployeeService) AddOvertime(ctx context.Context, employeeID int64, req apiclient.OvertimeRequest) (*entity.OvertimeRecord, error) {
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, apiclient.Validation("invalid date %q", req.Date)
	}
	if !req.Hours.IsPositive() {
		return nil, apiclient.Validation("overtime hours must be positive")
	}
	return s.api.AddOvertime(ctx, employeeID, req)
}
