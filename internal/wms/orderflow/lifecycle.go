package orderflow

import (
	"errors"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

// 订单状态
const (
	StateQuote                = "QUOTE"
	StateSalesUnpaidPending   = "SALES_UNPAID_PENDING"
	StateSalesUnpaidCompleted = "SALES_UNPAID_COMPLETED"
	StateSalesPaidPending     = "SALES_PAID_PENDING"
	StateSalesPaidCompleted   = "SALES_PAID_COMPLETED"
)

// ErrInvalidTransition 当前状态不允许该操作
var ErrInvalidTransition = errors.New("invalid order state transition")

// State 订单当前状态
func State(order entity.Order) string {
	if !order.IsSales() {
		return StateQuote
	}
	switch {
	case order.IsPaid && order.IsCompleted:
		return StateSalesPaidCompleted
	case order.IsPaid:
		return StateSalesPaidPending
	case order.IsCompleted:
		return StateSalesUnpaidCompleted
	}
	return StateSalesUnpaidPending
}

// ConvertToSales 报价单转销售单，转换后一律未付款、未完成
func ConvertToSales(order entity.Order) (entity.Order, error) {
	if !order.IsQuote() {
		return order, ErrInvalidTransition
	}
	order.OrderType = entity.OrderTypeSales
	order.IsPaid = false
	order.IsCompleted = false
	return order, nil
}

// StatusUpdate 状态修改，nil 表示不变
type StatusUpdate struct {
	IsPaid      *bool   `json:"is_paid"`
	IsCompleted *bool   `json:"is_completed"`
	Remark      *string `json:"remark"`
}

func (u StatusUpdate) empty() bool {
	return u.IsPaid == nil && u.IsCompleted == nil && u.Remark == nil
}

// ApplyStatus 付款和完成标记只对销售单有效，两者互不影响，可以一次同时修改
func ApplyStatus(order entity.Order, upd StatusUpdate) (entity.Order, error) {
	if upd.empty() {
		return order, apiclient.Validation("nothing to update")
	}
	if (upd.IsPaid != nil || upd.IsCompleted != nil) && !order.IsSales() {
		return order, ErrInvalidTransition
	}
	if upd.IsPaid != nil {
		order.IsPaid = *upd.IsPaid
	}
	if upd.IsCompleted != nil {
		order.IsCompleted = *upd.IsCompleted
	}
	if upd.Remark != nil {
		order.Remark = *upd.Remark
	}
	return order, nil
}
