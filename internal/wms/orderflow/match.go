package orderflow

import (
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
)

type matcher func(item entity.InventoryItem, material, spec string) bool

// 依次尝试：原样相等、忽略大小写和首尾空格、规格互相包含
var matchers = []matcher{
	func(item entity.InventoryItem, material, spec string) bool {
		return item.Material == material && item.Specification == spec
	},
	func(item entity.InventoryItem, material, spec string) bool {
		return normalize(item.Material) == normalize(material) &&
			normalize(item.Specification) == normalize(spec)
	},
	func(item entity.InventoryItem, material, spec string) bool {
		if normalize(item.Material) != normalize(material) {
			return false
		}
		a, b := normalize(item.Specification), normalize(spec)
		if a == "" || b == "" {
			return false
		}
		return strings.Contains(a, b) || strings.Contains(b, a)
	},
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchInventory 在库存快照中查找明细对应的库存行，第一个命中的策略生效
func MatchInventory(items []entity.InventoryItem, material, spec string) (entity.InventoryItem, bool) {
	for _, match := range matchers {
		for _, item := range items {
			if match(item, material, spec) {
				return item, true
			}
		}
	}
	return entity.InventoryItem{}, false
}

// Shortfall 库存不足的明细
type Shortfall struct {
	Material      string          `json:"material"`
	Specification string          `json:"specification"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Missing       decimal.Decimal `json:"missing"`
}

// CheckSufficiency 逐行比较需求数量和库存，未匹配到的库存按 0 计
// 同一库存行被多条明细引用时各自独立比较
func CheckSufficiency(items []entity.OrderItem, snapshot []entity.InventoryItem) []Shortfall {
	var shortfalls []Shortfall
	for _, item := range items {
		available := decimal.Zero
		if stock, ok := MatchInventory(snapshot, item.Material, item.Specification); ok {
			available = stock.Quantity
		}
		if available.LessThan(item.Quantity) {
			shortfalls = append(shortfalls, Shortfall{
				Material:      item.Material,
				Specification: item.Specification,
				Required:      item.Quantity,
				Available:     available,
				Missing:       item.Quantity.Sub(available),
			})
		}
	}
	return shortfalls
}
