package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role 用户角色
const (
	RoleEmployee = "employee"
	RoleBoss     = "boss"
	RoleAdmin    = "admin"
)

// UserStatus 用户状态
const (
	UserStatusActive   = "active"
	UserStatusPending  = "pending"
	UserStatusInactive = "inactive"
)

// ValidRole 是否为已知角色
func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleBoss, RoleAdmin:
		return true
	}
	return false
}

// User 登录用户
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Employee 员工（同时也是系统用户）
type Employee struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaveRecord 请假记录
type LeaveRecord struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason,omitempty"`
}

// OvertimeRecord 加班记录
type OvertimeRecord struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employee_id"`
	Date       string          `json:"date"`
	Hours      decimal.Decimal `json:"hours"`
	Reason     string          `json:"reason,omitempty"`
}
