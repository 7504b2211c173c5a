package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold 低库存阈值
const LowStockThreshold = 20

// InventoryItem 库存行，material + specification 唯一
type InventoryItem struct {
	ID            int64               `json:"id"`
	Material      string              `json:"material"`
	Specification string              `json:"specification"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Density       decimal.NullDecimal `json:"density"`
	CreatedAt     time.Time           `json:"created_at"`
}

// StockSeverity 库存状态级别
const (
	SeverityError   = "error"
	SeveritySuccess = "success"
)

// StockStatus 库存状态展示
type StockStatus struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}
