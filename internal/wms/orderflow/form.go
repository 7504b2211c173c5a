package orderflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
)

// ErrLastItem 订单至少保留一行明细
var ErrLastItem = apiclient.Validation("an order must keep at least one item")

// Lookup 表单联动需要的库存查询
type Lookup interface {
	Specifications(ctx context.Context, material string) ([]string, error)
	// Inventory material 为空时返回全部库存
	Inventory(ctx context.Context, material string) ([]entity.InventoryItem, error)
}

// Line 表单中的一行明细
type Line struct {
	entity.OrderItem
	// Stock 当前匹配到的库存数量，未选规格时为空
	Stock          *decimal.Decimal `json:"stock,omitempty"`
	Specifications []string         `json:"specifications,omitempty"`
}

// Form 订单录入表单（新建或编辑）
type Form struct {
	OrderID         int64  `json:"order_id,omitempty"`
	OrderType       string `json:"order_type"`
	CustomerID      int64  `json:"customer_id"`
	Remark          string `json:"remark"`
	Items           []Line `json:"items"`
	Submitting      bool   `json:"submitting"`
	AwaitingConfirm bool   `json:"awaiting_confirm"`
}

// NewForm 新建表单，默认带一行空明细
func NewForm(orderType string) (*Form, error) {
	if orderType != entity.OrderTypeQuote && orderType != entity.OrderTypeSales {
		return nil, apiclient.Validation("invalid order type: %s", orderType)
	}
	return &Form{
		OrderType: orderType,
		Items:     []Line{newLine()},
	}, nil
}

func newLine() Line {
	return Line{OrderItem: entity.OrderItem{
		Quantity:  decimal.Zero,
		Weight:    decimal.Zero,
		UnitPrice: decimal.Zero,
		Subtotal:  decimal.Zero,
	}}
}

// LoadForEdit 用已有订单填充表单，订单类型不可再改
func LoadForEdit(order entity.Order) *Form {
	form := &Form{
		OrderID:    order.ID,
		OrderType:  order.OrderType,
		CustomerID: order.CustomerID,
		Remark:     order.Remark,
	}
	for _, item := range order.Items {
		item.Subtotal = item.ComputeSubtotal()
		form.Items = append(form.Items, Line{OrderItem: item})
	}
	if len(form.Items) == 0 {
		form.Items = []Line{newLine()}
	}
	return form
}

// touch 表单有改动后需要重新提交确认
func (f *Form) touch() {
	f.AwaitingConfirm = false
}

func (f *Form) AddItem() {
	f.Items = append(f.Items, newLine())
	f.touch()
}

func (f *Form) RemoveItem(i int) error {
	if i < 0 || i >= len(f.Items) {
		return apiclient.Validation("item %d does not exist", i+1)
	}
	if len(f.Items) == 1 {
		return ErrLastItem
	}
	f.Items = append(f.Items[:i], f.Items[i+1:]...)
	f.touch()
	return nil
}

// SetHeader 修改客户和备注
func (f *Form) SetHeader(customerID *int64, remark *string) {
	if customerID != nil {
		f.CustomerID = *customerID
	}
	if remark != nil {
		f.Remark = *remark
	}
	f.touch()
}

// SetItemField 修改明细字段并做联动：
//   - material 变化时清空规格、重新加载规格列表
//   - 材质和规格都有值时刷新库存数量
//   - quantity/weight/unit_price 变化时重算小计
//
// 查询失败不影响本次修改，以 warning 返回
func (f *Form) SetItemField(ctx context.Context, i int, field, value string, lookup Lookup) ([]string, error) {
	if i < 0 || i >= len(f.Items) {
		return nil, apiclient.Validation("item %d does not exist", i+1)
	}
	line := &f.Items[i]
	var warnings []string

	switch field {
	case "material":
		line.Material = value
		line.Specification = ""
		line.Stock = nil
		line.Specifications = nil
		if strings.TrimSpace(value) != "" && lookup != nil {
			specs, err := lookup.Specifications(ctx, value)
			if err != nil {
				warnings = append(warnings, "failed to load specifications: "+apiclient.Normalize(err, false).Msg)
			} else {
				line.Specifications = specs
			}
		}
	case "specification":
		line.Specification = value
		line.Stock = nil
		if line.Material != "" && value != "" && lookup != nil {
			if w := refreshStock(ctx, line, lookup); w != "" {
				warnings = append(warnings, w)
			}
		}
	case "quantity", "weight", "unit_price":
		n, err := parseAmount(value)
		if err != nil {
			return nil, apiclient.Validation("item %d: invalid %s %q", i+1, field, value)
		}
		switch field {
		case "quantity":
			line.Quantity = n
		case "weight":
			line.Weight = n
		default:
			line.UnitPrice = n
		}
		line.Subtotal = line.ComputeSubtotal()
	case "unit":
		line.Unit = value
	case "remark":
		line.Remark = value
	default:
		return nil, apiclient.Validation("unknown item field: %s", field)
	}

	f.touch()
	return warnings, nil
}

func refreshStock(ctx context.Context, line *Line, lookup Lookup) string {
	snapshot, err := lookup.Inventory(ctx, line.Material)
	if err != nil {
		return "failed to load inventory: " + apiclient.Normalize(err, false).Msg
	}
	qty := decimal.Zero
	if stock, ok := MatchInventory(snapshot, line.Material, line.Specification); ok {
		qty = stock.Quantity
	}
	line.Stock = &qty
	return ""
}

func parseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	n, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if n.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount")
	}
	return n, nil
}

// Validate 提交前的本地校验，不发起任何请求
func (f *Form) Validate() error {
	var problems []string
	if f.CustomerID <= 0 {
		problems = append(problems, "customer is required")
	}
	for i, line := range f.Items {
		var missing []string
		if strings.TrimSpace(line.Material) == "" {
			missing = append(missing, "material")
		}
		if strings.TrimSpace(line.Specification) == "" {
			missing = append(missing, "specification")
		}
		if !line.Quantity.IsPositive() {
			missing = append(missing, "quantity")
		}
		if !line.UnitPrice.IsPositive() {
			missing = append(missing, "unit price")
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("item %d: %s required", i+1, strings.Join(missing, ", ")))
		}
	}
	if len(problems) > 0 {
		return apiclient.Validation("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Total 合计
func (f *Form) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range f.Items {
		total = total.Add(line.Subtotal)
	}
	return total
}

// OrderItems 提交用的明细，小计按当前字段重算
func (f *Form) OrderItems() []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(f.Items))
	for _, line := range f.Items {
		item := line.OrderItem
		item.Subtotal = item.ComputeSubtotal()
		items = append(items, item)
	}
	return items
}
