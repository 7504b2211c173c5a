package orderflow

import (
	"testing"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestState(t *testing.T) {
	assert.Equal(t, StateQuote, State(entity.Order{OrderType: entity.OrderTypeQuote, IsPaid: true}))
	assert.Equal(t, StateSalesUnpaidPending, State(entity.Order{OrderType: entity.OrderTypeSales}))
	assert.Equal(t, StateSalesUnpaidCompleted, State(entity.Order{OrderType: entity.OrderTypeSales, IsCompleted: true}))
	assert.Equal(t, StateSalesPaidPending, State(entity.Order{OrderType: entity.OrderTypeSales, IsPaid: true}))
	assert.Equal(t, StateSalesPaidCompleted, State(entity.Order{OrderType: entity.OrderTypeSales, IsPaid: true, IsCompleted: true}))
}

func TestConvertToSalesResetsFlags(t *testing.T) {
	quote := entity.Order{ID: 1, OrderType: entity.OrderTypeQuote, IsPaid: true, IsCompleted: true}
	sales, err := ConvertToSales(quote)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderTypeSales, sales.OrderType)
	assert.False(t, sales.IsPaid)
	assert.False(t, sales.IsCompleted)
	assert.Equal(t, StateSalesUnpaidPending, State(sales))
}

func TestConvertToSalesOnlyFromQuote(t *testing.T) {
	_, err := ConvertToSales(entity.Order{OrderType: entity.OrderTypeSales})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyStatus(t *testing.T) {
	order := entity.Order{OrderType: entity.OrderTypeSales}

	paid, err := ApplyStatus(order, StatusUpdate{IsPaid: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, StateSalesPaidPending, State(paid))

	both, err := ApplyStatus(order, StatusUpdate{IsPaid: boolPtr(true), IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, StateSalesPaidCompleted, State(both))

	back, err := ApplyStatus(both, StatusUpdate{IsPaid: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, StateSalesUnpaidCompleted, State(back))
}

func TestApplyStatusRejectsQuoteFlags(t *testing.T) {
	_, err := ApplyStatus(entity.Order{OrderType: entity.OrderTypeQuote}, StatusUpdate{IsPaid: boolPtr(true)})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	remark := "call before delivery"
	got, err := ApplyStatus(entity.Order{OrderType: entity.OrderTypeQuote}, StatusUpdate{Remark: &remark})
	require.NoError(t, err)
	assert.Equal(t, remark, got.Remark)
}

func TestApplyStatusEmpty(t *testing.T) {
	_, err := ApplyStatus(entity.Order{OrderType: entity.OrderTypeSales}, StatusUpdate{})
	assert.True(t, apiclient.IsKind(err, apiclient.KindValidation))
}
