package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType 订单类型
const (
	OrderTypeQuote = "QUOTE" // 报价单
	OrderTypeSales = "SALES" // 销售单
)

// Order 订单
type Order struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	OrderType    string          `json:"order_type"`
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	UserID       int64           `json:"user_id"`
	Username     string          `json:"username,omitempty"`
	IsPaid       bool            `json:"is_paid"`
	IsCompleted  bool            `json:"is_completed"`
	Remark       string          `json:"remark,omitempty"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`

	Items []OrderItem `json:"items,omitempty"`
}

func (o Order) IsQuote() bool {
	return o.OrderType == OrderTypeQuote
}

func (o Order) IsSales() bool {
	return o.OrderType == OrderTypeSales
}

// ComputeTotal 按明细小计汇总
func (o Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// OrderItem 订单明细
type OrderItem struct {
	Material      string          `json:"material"`
	Specification string          `json:"specification"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Weight        decimal.Decimal `json:"weight"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Remark        string          `json:"remark,omitempty"`
}

// ComputeSubtotal 有重量按重量计价，否则按数量计价
func (i OrderItem) ComputeSubtotal() decimal.Decimal {
	if i.Weight.IsPositive() {
		return i.Weight.Mul(i.UnitPrice)
	}
	return i.Quantity.Mul(i.UnitPrice)
}
