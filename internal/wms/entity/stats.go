package entity

import "github.com/shopspring/decimal"

// StatsKind 统计类型
const (
	StatsOrders    = "orders"
	StatsInventory = "inventory"
	StatsCustomers = "customers"
	StatsEmployees = "employees"
	StatsDashboard = "dashboard"
	StatsSales     = "sales"
)

// ValidStatsKind 是否为远端支持的统计类型
func ValidStatsKind(kind string) bool {
	switch kind {
	case StatsOrders, StatsInventory, StatsCustomers, StatsEmployees, StatsDashboard, StatsSales:
		return true
	}
	return false
}

// DashboardStats 首页汇总
type DashboardStats struct {
	TotalOrders    int             `json:"total_orders"`
	SalesOrders    int             `json:"sales_orders"`
	QuoteOrders    int             `json:"quote_orders"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	UnpaidAmount   decimal.Decimal `json:"unpaid_amount"`
	CustomerCount  int             `json:"customer_count"`
	EmployeeCount  int             `json:"employee_count"`
	InventoryCount int             `json:"inventory_count"`
	LowStockCount  int             `json:"low_stock_count"`
}

// SalesPoint 销售趋势点
type SalesPoint struct {
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
	Orders int             `json:"orders"`
}

// MaterialStock 按材质汇总的库存
type MaterialStock struct {
	Material string          `json:"material"`
	Quantity decimal.Decimal `json:"quantity"`
}
