package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer 客户
type Customer struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Remark    string          `json:"remark,omitempty"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	CreatedAt time.Time       `json:"created_at"`
}
