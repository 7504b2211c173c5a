package orderflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrAlreadySubmitting 上一次提交还没有返回
	ErrAlreadySubmitting = errors.New("order is already being submitted")
	// ErrInsufficientInventory 销售单库存不足
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrNotSubmitted 未经过提交检查就确认
	ErrNotSubmitted = apiclient.Validation("submit the order before confirming")
)

// InsufficientError 带缺货明细的库存不足错误
type InsufficientError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("insufficient inventory for %d item(s)", len(e.Shortfalls))
}

func (e *InsufficientError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// OrderAPI 提交订单用到的远端接口
type OrderAPI interface {
	CreateOrder(ctx context.Context, req apiclient.CreateOrderRequest) (*entity.Order, error)
	EditOrder(ctx context.Context, id int64, req apiclient.EditOrderRequest) (*entity.Order, error)
}

// Summary 提交检查通过后给用户确认的摘要
type Summary struct {
	OrderID    int64           `json:"order_id,omitempty"`
	OrderType  string          `json:"order_type"`
	CustomerID int64           `json:"customer_id"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
}

// Workflow 订单提交流程：本地校验 → 库存检查 → 用户确认 → 提交
type Workflow struct {
	lookup Lookup
	orders OrderAPI
	logger *zap.Logger
}

func NewWorkflow(lookup Lookup, orders OrderAPI, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{lookup: lookup, orders: orders, logger: logger}
}

// Submit 校验表单，销售单重新拉取库存做充足性检查
// 检查通过后表单进入待确认状态，此时还没有创建订单
func (w *Workflow) Submit(ctx context.Context, form *Form) (*Summary, error) {
	if form.Submitting {
		return nil, ErrAlreadySubmitting
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if form.OrderType == entity.OrderTypeSales {
		snapshot, err := w.lookup.Inventory(ctx, "")
		if err != nil {
			return nil, err
		}
		if shortfalls := CheckSufficiency(form.OrderItems(), snapshot); len(shortfalls) > 0 {
			w.logger.Info("Order blocked by inventory check",
				zap.Int("shortfalls", len(shortfalls)),
				zap.Int64("customer_id", form.CustomerID),
			)
			return nil, &InsufficientError{Shortfalls: shortfalls}
		}
	}

	form.AwaitingConfirm = true
	return &Summary{
		OrderID:    form.OrderID,
		OrderType:  form.OrderType,
		CustomerID: form.CustomerID,
		ItemCount:  len(form.Items),
		Total:      form.Total(),
	}, nil
}

// Confirm 用户确认后提交订单；新单走创建，编辑走整单更新
// 调用方负责 Submitting 标记的持久化
func (w *Workflow) Confirm(ctx context.Context, form *Form) (*entity.Order, error) {
	if !form.AwaitingConfirm {
		return nil, ErrNotSubmitted
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	items := form.OrderItems()
	var (
		order *entity.Order
		err   error
	)
	if form.OrderID > 0 {
		order, err = w.orders.EditOrder(ctx, form.OrderID, apiclient.EditOrderRequest{
			CustomerID: form.CustomerID,
			Remark:     form.Remark,
			Items:      items,
		})
	} else {
		order, err = w.orders.CreateOrder(ctx, apiclient.CreateOrderRequest{
			OrderType:  form.OrderType,
			CustomerID: form.CustomerID,
			Remark:     form.Remark,
			Items:      items,
		})
	}
	if err != nil {
		w.logger.Warn("Order submission failed", zap.Int64("order_id", form.OrderID), zap.Error(err))
		return nil, err
	}
	return order, nil
}
