package service

import (
	"context"
	"encoding/json"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"golang.org/x/sync/errgroup"
)

type StatsService struct {
	api *apiclient.Client
}

func NewStatsService(api *apiclient.Client) *StatsService {
	return &StatsService{api: api}
}

// Series 图表数据序列
type Series struct {
	Labels []string `json:"labels"`
	Values []string `json:"values"`
}

// Dashboard 首页数据
type Dashboard struct {
	Summary    *entity.DashboardStats `json:"summary"`
	SalesTrend Series                 `json:"sales_trend"`
	Inventory  Series                 `json:"inventory_by_material"`
}

// Dashboard 并发拉取汇总、销售趋势和库存分布，任一失败整体失败
func (s *StatsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		summary *entity.DashboardStats
		sales   []entity.SalesPoint
		stocks  []entity.MaterialStock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.api.DashboardStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.api.SalesTrend(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stocks, err = s.api.InventoryByMaterial(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Summary:    summary,
		SalesTrend: Series{Labels: []string{}, Values: []string{}},
		Inventory:  Series{Labels: []string{}, Values: []string{}},
	}
	for _, p := range sales {
		d.SalesTrend.Labels = append(d.SalesTrend.Labels, p.Period)
		d.SalesTrend.Values = append(d.SalesTrend.Values, p.Amount.String())
	}
	for _, m := range stocks {
		d.Inventory.Labels = append(d.Inventory.Labels, m.Material)
		d.Inventory.Values = append(d.Inventory.Values, m.Quantity.String())
	}
	return d, nil
}

// Get 单项统计，原样返回服务端数据
func (s *StatsService) Get(ctx context.Context, kind string) (json.RawMessage, error) {
	return s.api.Stats(ctx, kind)
}
