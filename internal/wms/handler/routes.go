package handler

import (
	"net/http"

	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册页面和接口路由
// 页面未登录跳转 /login，无权限跳转 /403；接口统一返回 JSON 401/403
func RegisterRoutes(r *gin.Engine, h *Handlers, mgr *session.Manager, pol *policy.Policy, cookieName string) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET(middleware.LoginPath, h.Session.LoginPage)
	r.GET(middleware.ForbiddenPath, h.Session.ForbiddenPage)

	sess := r.Group("/api/session")
	{
		sess.POST("/login", h.Session.Login)
		sess.POST("/register", h.Session.Register)
		sess.POST("/logout", h.Session.Logout)
	}

	// 页面
	pages := r.Group("")
	pages.Use(middleware.SessionAuth(mgr, cookieName, middleware.ModePage))
	{
		page := func(capability string) gin.HandlerFunc {
			return middleware.RequireCapability(pol, capability, middleware.ModePage)
		}

		pages.GET("/dashboard", page(policy.StatsRead), h.Page.Dashboard)
		pages.GET("/orders", page(policy.OrderRead), h.Page.Orders)
		pages.GET("/orders/new", page(policy.OrderCreate), h.Page.OrderNew)
		pages.GET("/orders/:id", page(policy.OrderRead), h.Page.OrderDetail)
		pages.GET("/orders/:id/edit", page(policy.OrderCreate), h.Page.OrderEdit)
		pages.GET("/inventory", page(policy.InventoryRead), h.Page.Inventory)
		pages.GET("/customers", page(policy.CustomerRead), h.Page.Customers)
		pages.GET("/customers/:id", page(policy.CustomerRead), h.Page.CustomerDetail)
		pages.GET("/stats/:kind", page(policy.StatsRead), h.Page.Stats)

		admin := pages.Group("/admin", page(policy.PageAdmin))
		{
			admin.GET("/employees", page(policy.EmployeeRead), h.Page.Employees)
			admin.GET("/users/pending", page(policy.UserApprove), h.Page.PendingUsers)
		}
	}

	// 接口
	api := r.Group("/api")
	api.Use(middleware.SessionAuth(mgr, cookieName, middleware.ModeAction))
	{
		can := func(capability string) gin.HandlerFunc {
			return middleware.RequireCapability(pol, capability, middleware.ModeAction)
		}

		api.GET("/session", h.Page.Current)

		draft := api.Group("/orders/draft", can(policy.OrderCreate))
		{
			draft.POST("", h.Draft.Start)
			draft.GET("", h.Draft.Get)
			draft.PATCH("", h.Draft.UpdateHeader)
			draft.DELETE("", h.Draft.Discard)
			draft.POST("/items", h.Draft.AddItem)
			draft.PATCH("/items/:index", h.Draft.UpdateItem)
			draft.DELETE("/items/:index", h.Draft.RemoveItem)
			draft.POST("/submit", h.Draft.Submit)
			draft.POST("/confirm", h.Draft.Confirm)
		}

		orders := api.Group("/orders")
		{
			orders.POST("/:id/edit", can(policy.OrderCreate), h.Draft.StartEdit)
			orders.PUT("/:id/status", can(policy.OrderRead), h.Order.UpdateStatus)
			orders.POST("/:id/convert", can(policy.OrderRead), h.Order.Convert)
			orders.DELETE("/:id", can(policy.OrderDelete), h.Order.Delete)
			orders.GET("/:id/pdf", can(policy.OrderRead), h.Order.PDF)
		}

		inventory := api.Group("/inventory")
		{
			inventory.GET("/materials", can(policy.InventoryRead), h.Inventory.Materials)
			inventory.GET("/export", can(policy.InventoryRead), h.Inventory.Export)
			inventory.GET("/import/template", can(policy.InventoryImport), h.Inventory.ImportTemplate)
			inventory.POST("/import", can(policy.InventoryImport), h.Inventory.Import)
			inventory.POST("", can(policy.InventoryCreate), h.Inventory.Create)
			inventory.PUT("/:id", can(policy.InventoryUpdate), h.Inventory.Update)
			inventory.DELETE("/:id", can(policy.InventoryDelete), h.Inventory.Delete)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", can(policy.CustomerCreate), h.Customer.Create)
			customers.PUT("/:id", can(policy.CustomerUpdate), h.Customer.Update)
			customers.DELETE("/:id", can(policy.CustomerDelete), h.Customer.Delete)
		}

		employees := api.Group("/employees", can(policy.EmployeeManage))
		{
			employees.POST("", h.Employee.Create)
			employees.PUT("/:id", h.Employee.Update)
			employees.DELETE("/:id", h.Employee.Delete)
			employees.GET("/:id/leaves", h.Employee.ListLeaves)
			employees.POST("/:id/leaves", h.Employee.AddLeave)
			employees.GET("/:id/overtimes", h.Employee.ListOvertimes)
			employees.POST("/:id/overtimes", h.Employee.AddOvertime)
		}
		api.POST("/users/:id/approve", can(policy.UserApprove), h.Employee.Approve)

		stats := api.Group("/stats", can(policy.StatsRead))
		{
			stats.GET("/dashboard", h.Stats.Dashboard)
			stats.GET("/:kind", h.Stats.Get)
		}

		api.GET("/preferences", h.Preference.Get)
		api.PUT("/preferences", h.Preference.Update)
		api.DELETE("/preferences", h.Preference.Reset)
	}
}
