package orderflow

import (
	"context"
	"errors"
	"testing"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	specs     map[string][]string
	inventory []entity.InventoryItem
	err       error
	calls     int
}

func (l *fakeLookup) Specifications(_ context.Context, material string) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.specs[material], nil
}

func (l *fakeLookup) Inventory(_ context.Context, material string) ([]entity.InventoryItem, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if material == "" {
		return l.inventory, nil
	}
	var out []entity.InventoryItem
	for _, item := range l.inventory {
		if item.Material == material {
			out = append(out, item)
		}
	}
	return out, nil
}

func newLookup() *fakeLookup {
	return &fakeLookup{
		specs:     map[string][]string{"201": {"2mm", "3mm"}},
		inventory: []entity.InventoryItem{stock(1, "201", "2mm", 10)},
	}
}

func TestNewForm(t *testing.T) {
	form, err := NewForm(entity.OrderTypeSales)
	require.NoError(t, err)
	assert.Len(t, form.Items, 1)

	_, err = NewForm("RENTAL")
	assert.True(t, apiclient.IsKind(err, apiclient.KindValidation))
}

func TestRemoveItemKeepsLastLine(t *testing.T) {
	form, _ := NewForm(entity.OrderTypeQuote)
	assert.ErrorIs(t, form.RemoveItem(0), ErrLastItem)
	assert.Error(t, form.RemoveItem(3))

	form.AddItem()
	form.AddItem()
	require.NoError(t, form.RemoveItem(1))
	assert.Len(t, form.Items, 2)
}

func TestSetItemFieldMaterialLoadsSpecs(t *testing.T) {
	ctx := context.Background()
	lookup := newLookup()
	form, _ := NewForm(entity.OrderTypeSales)

	_, err := form.SetItemField(ctx, 0, "specification", "3mm", lookup)
	require.NoError(t, err)

	warnings, err := form.SetItemField(ctx, 0, "material", "201", lookup)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"2mm", "3mm"}, form.Items[0].Specifications)
	assert.Empty(t, form.Items[0].Specification)
	assert.Nil(t, form.Items[0].Stock)
}

func TestSetItemFieldSpecificationRefreshesStock(t *testing.T) {
	ctx := context.Background()
	lookup := newLookup()
	form, _ := NewForm(entity.OrderTypeSales)

	form.SetItemField(ctx, 0, "material", "201", lookup)
	_, err := form.SetItemField(ctx, 0, "specification", "2MM", lookup)
	require.NoError(t, err)
	require.NotNil(t, form.Items[0].Stock)
	assert.True(t, form.Items[0].Stock.Equal(decimal.NewFromInt(10)))

	_, err = form.SetItemField(ctx, 0, "specification", "9mm", lookup)
	require.NoError(t, err)
	require.NotNil(t, form.Items[0].Stock)
	assert.True(t, form.Items[0].Stock.IsZero())
}

func TestSetItemFieldLookupFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	lookup := &fakeLookup{err: errors.New("down")}
	form, _ := NewForm(entity.OrderTypeSales)

	warnings, err := form.SetItemField(ctx, 0, "material", "201", lookup)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "201", form.Items[0].Material)
}

func TestSubtotalRecomputed(t *testing.T) {
	ctx := context.Background()
	form, _ := NewForm(entity.OrderTypeQuote)

	form.SetItemField(ctx, 0, "quantity", "3", nil)
	form.SetItemField(ctx, 0, "unit_price", "12.5", nil)
	assert.Equal(t, "37.5", form.Items[0].Subtotal.String())

	form.SetItemField(ctx, 0, "weight", "2.4", nil)
	assert.Equal(t, "30", form.Items[0].Subtotal.String())

	form.SetItemField(ctx, 0, "weight", "0", nil)
	assert.Equal(t, "37.5", form.Items[0].Subtotal.String())
	assert.Equal(t, "37.5", form.Total().String())
}

func TestSetItemFieldRejectsBadNumbers(t *testing.T) {
	form, _ := NewForm(entity.OrderTypeQuote)
	for _, v := range []string{"abc", "-1"} {
		_, err := form.SetItemField(context.Background(), 0, "quantity", v, nil)
		assert.True(t, apiclient.IsKind(err, apiclient.KindValidation), v)
	}
	_, err := form.SetItemField(context.Background(), 0, "colour", "red", nil)
	assert.True(t, apiclient.IsKind(err, apiclient.KindValidation))
}

func TestValidateListsLines(t *testing.T) {
	form, _ := NewForm(entity.OrderTypeQuote)
	form.AddItem()
	err := form.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer is required")
	assert.Contains(t, err.Error(), "item 1:")
	assert.Contains(t, err.Error(), "item 2:")
}

func TestEditingClearsAwaitingConfirm(t *testing.T) {
	form, _ := NewForm(entity.OrderTypeQuote)
	form.AwaitingConfirm = true
	form.SetItemField(context.Background(), 0, "unit", "kg", nil)
	assert.False(t, form.AwaitingConfirm)
}

func TestLoadForEdit(t *testing.T) {
	order := entity.Order{
		ID: 9, OrderType: entity.OrderTypeSales, CustomerID: 4, Remark: "r",
		Items: []entity.OrderItem{{
			Material: "201", Specification: "2mm",
			Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5),
		}},
	}
	form := LoadForEdit(order)
	assert.EqualValues(t, 9, form.OrderID)
	assert.Equal(t, entity.OrderTypeSales, form.OrderType)
	require.Len(t, form.Items, 1)
	assert.Equal(t, "10", form.Items[0].Subtotal.String())
}
