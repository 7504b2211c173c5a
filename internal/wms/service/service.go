package service

import (
	"context"
	"errors"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/repository"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	// ErrForbidden 当前用户没有该操作的权限
	ErrForbidden = errors.New("permission denied")
	// ErrConfirmationRequired 破坏性操作需要用户二次确认
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Deps 服务层依赖
type Deps struct {
	API         *apiclient.Client
	Policy      *policy.Policy
	Drafts      *orderflow.DraftStore
	Preferences *repository.PreferenceRepository
	// Archive 可选，为空时订单 PDF 不归档
	Archive       *minio.Client
	ArchiveBucket string
	Logger        *zap.Logger
}

// Services 服务集合
type Services struct {
	Auth       *AuthService
	Order      *OrderService
	Draft      *DraftService
	Inventory  *InventoryService
	Customer   *CustomerService
	Employee   *EmployeeService
	Stats      *StatsService
	Preference *PreferenceService
}

// NewServices 创建服务集合
func NewServices(deps Deps) *Services {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lookup := NewInventoryLookup(deps.API)
	workflow := orderflow.NewWorkflow(lookup, deps.API, logger)

	return &Services{
		Auth:       NewAuthService(deps.API),
		Order:      NewOrderService(deps.API, deps.Policy, deps.Archive, deps.ArchiveBucket, logger),
		Draft:      NewDraftService(deps.Drafts, workflow, lookup, deps.API, deps.Policy, logger),
		Inventory:  NewInventoryService(deps.API, logger),
		Customer:   NewCustomerService(deps.API),
		Employee:   NewEmployeeService(deps.API),
		Stats:      NewStatsService(deps.API),
		Preference: NewPreferenceService(deps.Preferences),
	}
}

// InventoryLookup 订单表单联动查询，直接读远端库存
type InventoryLookup struct {
	api *apiclient.Client
}

func NewInventoryLookup(api *apiclient.Client) *InventoryLookup {
	return &InventoryLookup{api: api}
}

func (l *InventoryLookup) Specifications(ctx context.Context, material string) ([]string, error) {
	return l.api.ListSpecifications(ctx, material)
}

func (l *InventoryLookup) Inventory(ctx context.Context, material string) ([]entity.InventoryItem, error) {
	return apiclient.CollectAll(ctx, func(ctx context.Context, page, size int) (*apiclient.Page[entity.InventoryItem], error) {
		return l.api.ListInventory(ctx, apiclient.InventoryListParams{Material: material, Page: page, Size: size})
	})
}
