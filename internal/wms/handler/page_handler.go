package handler

import (
	"strconv"

	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
)

// =============================================================================
// 页面：每个 GET 路由返回对应页面渲染所需的数据
// =============================================================================

// NavItem 菜单项
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

var menu = []struct {
	NavItem
	capability string
}{
	{NavItem{"/dashboard", "Dashboard"}, policy.StatsRead},
	{NavItem{"/orders", "Orders"}, policy.OrderRead},
	{NavItem{"/inventory", "Inventory"}, policy.InventoryRead},
	{NavItem{"/customers", "Customers"}, policy.CustomerRead},
	{NavItem{"/stats/orders", "Statistics"}, policy.StatsRead},
	{NavItem{"/admin/employees", "Employees"}, policy.PageAdmin},
	{NavItem{"/admin/users/pending", "Pending Users"}, policy.UserApprove},
}

type PageHandler struct {
	base
	svc    *service.Services
	policy *policy.Policy
}

func NewPageHandler(b base, svc *service.Services, pol *policy.Policy) *PageHandler {
	return &PageHandler{base: b, svc: svc, policy: pol}
}

func (h *PageHandler) nav(role string) []NavItem {
	items := []NavItem{}
	for _, m := range menu {
		if h.policy.Can(role, m.capability) {
			items = append(items, m.NavItem)
		}
	}
	return items
}

// render 页面公共部分：页面名、当前用户、菜单
func (h *PageHandler) render(c *gin.Context, page string, data gin.H) {
	user := middleware.CurrentUser(c)
	if data == nil {
		data = gin.H{}
	}
	data["page"] = page
	data["user"] = user
	data["nav"] = h.nav(user.Role)
	Success(c, data)
}

// Current GET /api/session
func (h *PageHandler) Current(c *gin.Context) {
	user := middleware.CurrentUser(c)
	Success(c, gin.H{
		"user":         user,
		"capabilities": h.policy.Capabilities(user.Role),
		"nav":          h.nav(user.Role),
	})
}

// Dashboard GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Stats.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "dashboard", gin.H{"dashboard": dashboard})
}

func (h *PageHandler) pageSize(c *gin.Context) int {
	pref, err := h.svc.Preference.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return 20
	}
	return pref.PageSize
}

// Orders GET /orders
func (h *PageHandler) Orders(c *gin.Context) {
	page, size := GetPagination(c, h.pageSize(c))
	params := apiclient.OrderListParams{
		Keyword:     c.Query("keyword"),
		OrderNumber: c.Query("order_number"),
		OrderType:   c.Query("order_type"),
		Page:        page,
		Size:        size,
	}
	if v := c.Query("customer_id"); v != "" {
		params.CustomerID, _ = strconv.ParseInt(v, 10, 64)
	}

	orders, err := h.svc.Order.List(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "orders", gin.H{
		"orders":       orders.Items,
		"total":        orders.Total,
		"page_number":  page,
		"page_size":    size,
		"order_number": params.OrderNumber,
	})
}

// OrderNew GET /orders/new?type=SALES
// 继续当前会话未完成的新建表单；指定 type 时重新开始
func (h *PageHandler) OrderNew(c *gin.Context) {
	ctx := c.Request.Context()
	sess := middleware.CurrentSession(c)

	form, err := h.svc.Draft.Get(ctx, sess.ID)
	orderType := c.Query("type")
	if err != nil || orderType != "" || form.OrderID != 0 {
		if orderType == "" {
			orderType = entity.OrderTypeQuote
		}
		form, err = h.svc.Draft.Start(ctx, sess.ID, orderType)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, form)
}

func (h *PageHandler) renderForm(c *gin.Context, form *orderflow.Form) {
	materials, err := h.svc.Inventory.Materials(c.Request.Context())
	data := gin.H{"form": form, "total": form.Total(), "materials": materials}
	if err != nil {
		data["materials"] = []string{}
		data["warnings"] = []string{"failed to load materials: " + apiclient.Normalize(err, h.production).Msg}
	}
	h.render(c, "order_form", data)
}

// OrderDetail GET /orders/:id
func (h *PageHandler) OrderDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Order.Detail(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "order_detail", gin.H{"detail": detail})
}

// OrderEdit GET /orders/:id/edit
func (h *PageHandler) OrderEdit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)
	form, err := h.svc.Draft.Get(c.Request.Context(), sess.ID)
	if err != nil || form.OrderID != id {
		form, err = h.svc.Draft.StartEdit(c.Request.Context(), sess.ID, sess.User, id)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, form)
}

// Inventory GET /inventory
func (h *PageHandler) Inventory(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)
	pref, err := h.svc.Preference.Get(ctx, user.ID)
	if err != nil {
		def := entity.DefaultPreference(user.ID)
		pref = &def
	}

	page, size := GetPagination(c, pref.PageSize)
	lowStock, _ := strconv.ParseBool(c.Query("low_stock"))
	result, err := h.svc.Inventory.List(ctx, service.InventoryQuery{
		InventoryListParams: apiclient.InventoryListParams{
			Material:      c.Query("material"),
			Specification: c.Query("specification"),
			Keyword:       c.Query("keyword"),
			Page:          page,
			Size:          size,
		},
		LowStock: lowStock,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	view := pref.InventoryView
	if v := c.Query("view"); v == entity.InventoryViewList || v == entity.InventoryViewCard {
		view = v
	}
	h.render(c, "inventory", gin.H{
		"items":       result.Items,
		"total":       result.Total,
		"page_number": page,
		"page_size":   size,
		"view":        view,
		"low_stock":   lowStock,
		"threshold":   entity.LowStockThreshold,
	})
}

// Customers GET /customers
func (h *PageHandler) Customers(c *gin.Context) {
	page, size := GetPagination(c, h.pageSize(c))
	result, err := h.svc.Customer.List(c.Request.Context(), apiclient.CustomerListParams{
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "customers", gin.H{"customers": result.Items, "total": result.Total, "page_number": page, "page_size": size})
}

// CustomerDetail GET /customers/:id
func (h *PageHandler) CustomerDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Customer.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "customer_detail", gin.H{"detail": detail})
}

// Stats GET /stats/:kind
func (h *PageHandler) Stats(c *gin.Context) {
	kind := c.Param("kind")
	data, err := h.svc.Stats.Get(c.Request.Context(), kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "stats", gin.H{"kind": kind, "stats": data})
}

// Employees GET /admin/employees
func (h *PageHandler) Employees(c *gin.Context) {
	page, size := GetPagination(c, h.pageSize(c))
	result, err := h.svc.Employee.List(c.Request.Context(), apiclient.EmployeeListParams{
		Status:  c.Query("status"),
		Role:    c.Query("role"),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "employees", gin.H{"employees": result.Items, "total": result.Total, "page_number": page, "page_size": size})
}

// PendingUsers GET /admin/users/pending
func (h *PageHandler) PendingUsers(c *gin.Context) {
	page, size := GetPagination(c, h.pageSize(c))
	result, err := h.svc.Employee.PendingUsers(c.Request.Context(), page, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "pending_users", gin.H{
		"users":       result.Items,
		"total":       result.Total,
		"can_approve": h.policy.Can(middleware.CurrentUser(c).Role, policy.UserApprove),
	})
}
