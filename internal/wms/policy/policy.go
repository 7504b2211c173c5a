package policy

import (
	"fmt"
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// 能力（capability）统一写成 resource:action
const (
	PageAdmin = "page:admin"

	OrderRead      = "order:read"
	OrderCreate    = "order:create"
	OrderDelete    = "order:delete"
	OrderManageAny = "order:manage_any"

	InventoryRead   = "inventory:read"
	InventoryCreate = "inventory:create"
	InventoryUpdate = "inventory:update"
	InventoryDelete = "inventory:delete"
	InventoryImport = "inventory:import"

	CustomerRead   = "customer:read"
	CustomerCreate = "customer:create"
	CustomerUpdate = "customer:update"
	CustomerDelete = "customer:delete"

	EmployeeRead   = "employee:read"
	EmployeeManage = "employee:manage"
	UserApprove    = "user:approve"

	StatsRead = "stats:read"
)

var all = []string{
	PageAdmin,
	OrderRead, OrderCreate, OrderDelete, OrderManageAny,
	InventoryRead, InventoryCreate, InventoryUpdate, InventoryDelete, InventoryImport,
	CustomerRead, CustomerCreate, CustomerUpdate, CustomerDelete,
	EmployeeRead, EmployeeManage, UserApprove,
	StatsRead,
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// 角色直接授予的能力，上级角色通过继承拿到下级的全部能力
var grants = map[string][]string{
	entity.RoleEmployee: {
		OrderRead, OrderCreate,
		InventoryRead, InventoryCreate, InventoryUpdate,
		CustomerRead, CustomerCreate, CustomerUpdate,
		StatsRead,
	},
	entity.RoleBoss: {
		PageAdmin,
		OrderDelete, OrderManageAny,
		InventoryDelete, InventoryImport,
		CustomerDelete,
		EmployeeRead, EmployeeManage,
	},
	entity.RoleAdmin: {
		UserApprove,
	},
}

// Policy 角色能力表，所有页面和接口的权限判断都走这里
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// New 构建能力表：employee < boss < admin
func New() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load rbac model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rbac enforcer: %w", err)
	}

	var rules [][]string
	for role, caps := range grants {
		for _, capability := range caps {
			obj, act := split(capability)
			rules = append(rules, []string{role, obj, act})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("failed to add policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies([][]string{
		{entity.RoleBoss, entity.RoleEmployee},
		{entity.RoleAdmin, entity.RoleBoss},
	}); err != nil {
		return nil, fmt.Errorf("failed to add role hierarchy: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// MustNew 用于测试和启动阶段
func MustNew() *Policy {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

func split(capability string) (string, string) {
	obj, act, _ := strings.Cut(capability, ":")
	return obj, act
}

// Can 角色是否拥有能力；未知角色一律拒绝
func (p *Policy) Can(role, capability string) bool {
	if !entity.ValidRole(role) {
		return false
	}
	obj, act := split(capability)
	ok, err := p.enforcer.Enforce(role, obj, act)
	return err == nil && ok
}

// Capabilities 角色拥有的全部能力，前端据此渲染菜单和按钮
func (p *Policy) Capabilities(role string) []string {
	caps := []string{}
	for _, capability := range all {
		if p.Can(role, capability) {
			caps = append(caps, capability)
		}
	}
	return caps
}

// CanMutateOrder 订单创建人或拥有 order:manage_any 的角色可以修改订单
func (p *Policy) CanMutateOrder(user entity.User, order entity.Order) bool {
	if user.ID != 0 && user.ID == order.UserID {
		return true
	}
	return p.Can(user.Role, OrderManageAny)
}

// OrderActions 订单详情页可用的操作
type OrderActions struct {
	CanEdit         bool `json:"can_edit"`
	CanUpdateStatus bool `json:"can_update_status"`
	CanConvert      bool `json:"can_convert"`
	CanDelete       bool `json:"can_delete"`
}

// ActionsFor 结合订单状态和用户角色计算可用操作
func (p *Policy) ActionsFor(user entity.User, order entity.Order) OrderActions {
	mutable := p.CanMutateOrder(user, order)
	return OrderActions{
		CanEdit:         mutable,
		CanUpdateStatus: mutable && order.IsSales(),
		CanConvert:      mutable && order.IsQuote(),
		CanDelete:       p.Can(user.Role, OrderDelete),
	}
}
