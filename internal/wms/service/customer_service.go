package service

import (
	"context"
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CustomerService struct {
	api *apiclient.Client
}

func NewCustomerService(api *apiclient.Client) *CustomerService {
	return &CustomerService{api: api}
}

// CustomerDetail 客户详情：未付款销售单和按明细重算的欠款
type CustomerDetail struct {
	Customer     *entity.Customer `json:"customer"`
	UnpaidOrders []entity.Order   `json:"unpaid_orders"`
	// ComputedDebt 未付款销售单合计，与服务端 total_debt 对照
	ComputedDebt decimal.Decimal `json:"computed_debt"`
	DebtMatches  bool            `json:"debt_matches"`
}

func (s *CustomerService) List(ctx context.Context, params apiclient.CustomerListParams) (*apiclient.Page[entity.Customer], error) {
	return s.api.ListCustomers(ctx, params)
}

func (s *CustomerService) Detail(ctx context.Context, id int64) (*CustomerDetail, error) {
	var (
		customer *entity.Customer
		orders   []entity.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customer, err = s.api.GetCustomer(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = apiclient.CollectAll(gctx, func(ctx context.Context, page, size int) (*apiclient.Page[entity.Order], error) {
			return s.api.ListOrders(ctx, apiclient.OrderListParams{CustomerID: id, OrderType: entity.OrderTypeSales, Page: page, Size: size})
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &CustomerDetail{Customer: customer, UnpaidOrders: []entity.Order{}, ComputedDebt: decimal.Zero}
	for _, order := range orders {
		if !order.IsSales() || order.IsPaid {
			continue
		}
		detail.UnpaidOrders = append(detail.UnpaidOrders, order)
		detail.ComputedDebt = detail.ComputedDebt.Add(order.TotalPrice)
	}
	detail.DebtMatches = detail.ComputedDebt.Equal(customer.TotalDebt)
	return detail, nil
}

func validateCustomer(req *apiclient.CustomerRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apiclient.Validation("customer name is required")
	}
	return nil
}

func (s *CustomerService) Create(ctx context.Context, req apiclient.CustomerRequest) (*entity.Customer, error) {
	if err := validateCustomer(&req); err != nil {
		return nil, err
	}
	return s.api.CreateCustomer(ctx, req)
}

func (s *CustomerService) Update(ctx context.Context, id int64, req apiclient.CustomerRequest) (*entity.Customer, error) {
	if err := validateCustomer(&req); err != nil {
		return nil, err
	}
	return s.api.UpdateCustomer(ctx, id, req)
}

func (s *CustomerService) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.api.DeleteCustomer(ctx, id)
}
