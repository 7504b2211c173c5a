package service

import (
	"context"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"go.uber.org/zap"
)

// DraftService 订单录入表单，按会话保存
type DraftService struct {
	drafts   *orderflow.DraftStore
	workflow *orderflow.Workflow
	lookup   orderflow.Lookup
	api      *apiclient.Client
	policy   *policy.Policy
	logger   *zap.Logger
}

func NewDraftService(drafts *orderflow.DraftStore, workflow *orderflow.Workflow, lookup orderflow.Lookup, api *apiclient.Client, pol *policy.Policy, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{drafts: drafts, workflow: workflow, lookup: lookup, api: api, policy: pol, logger: logger}
}

// Start 新建订单表单，覆盖当前会话未提交的表单
func (s *DraftService) Start(ctx context.Context, sessionID, orderType string) (*orderflow.Form, error) {
	form, err := orderflow.NewForm(orderType)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, sessionID, form); err != nil {
		return nil, err
	}
	return form, nil
}

// StartEdit 用已有订单初始化表单
func (s *DraftService) StartEdit(ctx context.Context, sessionID string, user entity.User, orderID int64) (*orderflow.Form, error) {
	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutateOrder(user, *order) {
		return nil, ErrForbidden
	}
	form := orderflow.LoadForEdit(*order)
	if err := s.drafts.Save(ctx, sessionID, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *DraftService) Get(ctx context.Context, sessionID string) (*orderflow.Form, error) {
	return s.drafts.Load(ctx, sessionID)
}

func (s *DraftService) mutate(ctx context.Context, sessionID string, fn func(*orderflow.Form) error) (*orderflow.Form, error) {
	form, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if form.Submitting {
		return nil, orderflow.ErrAlreadySubmitting
	}
	if err := fn(form); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, sessionID, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *DraftService) AddItem(ctx context.Context, sessionID string) (*orderflow.Form, error) {
	return s.mutate(ctx, sessionID, func(f *orderflow.Form) error {
		f.AddItem()
		return nil
	})
}

func (s *DraftService) RemoveItem(ctx context.Context, sessionID string, index int) (*orderflow.Form, error) {
	return s.mutate(ctx, sessionID, func(f *orderflow.Form) error {
		return f.RemoveItem(index)
	})
}

// UpdateItem 修改明细字段，返回联动查询产生的提示
func (s *DraftService) UpdateItem(ctx context.Context, sessionID string, index int, field, value string) (*orderflow.Form, []string, error) {
	var warnings []string
	form, err := s.mutate(ctx, sessionID, func(f *orderflow.Form) error {
		w, err := f.SetItemField(ctx, index, field, value, s.lookup)
		warnings = w
		return err
	})
	return form, warnings, err
}

func (s *DraftService) UpdateHeader(ctx context.Context, sessionID string, customerID *int64, remark *string) (*orderflow.Form, error) {
	return s.mutate(ctx, sessionID, func(f *orderflow.Form) error {
		f.SetHeader(customerID, remark)
		return nil
	})
}

// Submit 校验和库存检查，通过后等待用户确认
func (s *DraftService) Submit(ctx context.Context, sessionID string) (*orderflow.Summary, error) {
	form, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := s.workflow.Submit(ctx, form)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, sessionID, form); err != nil {
		return nil, err
	}
	return summary, nil
}

// Confirm 提交订单；提交中的表单拒绝重复提交，失败后允许重试
func (s *DraftService) Confirm(ctx context.Context, sessionID string) (*entity.Order, error) {
	form, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if form.Submitting {
		return nil, orderflow.ErrAlreadySubmitting
	}
	if !form.AwaitingConfirm {
		return nil, orderflow.ErrNotSubmitted
	}

	form.Submitting = true
	if err := s.drafts.Save(ctx, sessionID, form); err != nil {
		return nil, err
	}

	order, err := s.workflow.Confirm(ctx, form)
	// 请求可能已被客户端取消，收尾写入不能依赖它
	cleanupCtx := context.WithoutCancel(ctx)
	if err != nil {
		form.Submitting = false
		if saveErr := s.drafts.Save(cleanupCtx, sessionID, form); saveErr != nil {
			s.logger.Error("reset draft submitting flag failed",
				zap.String("session_id", sessionID), zap.Error(saveErr))
		}
		return nil, err
	}
	if delErr := s.drafts.Delete(cleanupCtx, sessionID); delErr != nil {
		s.logger.Warn("delete confirmed draft failed",
			zap.String("session_id", sessionID), zap.Int64("order_id", order.ID), zap.Error(delErr))
	}
	return order, nil
}

func (s *DraftService) Discard(ctx context.Context, sessionID string) error {
	return s.drafts.Delete(ctx, sessionID)
}
