package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// OrderService 订单查询和状态流转
type OrderService struct {
	api     *apiclient.Client
	policy  *policy.Policy
	archive *minio.Client
	bucket  string
	logger  *zap.Logger
}

func NewOrderService(api *apiclient.Client, pol *policy.Policy, archive *minio.Client, bucket string, logger *zap.Logger) *OrderService {
	return &OrderService{api: api, policy: pol, archive: archive, bucket: bucket, logger: logger}
}

// OrderDetail 订单详情页数据
type OrderDetail struct {
	Order   *entity.Order       `json:"order"`
	State   string              `json:"state"`
	Actions policy.OrderActions `json:"actions"`
}

func (s *OrderService) List(ctx context.Context, params apiclient.OrderListParams) (*apiclient.Page[entity.Order], error) {
	return s.api.ListOrders(ctx, params)
}

func (s *OrderService) Detail(ctx context.Context, user entity.User, id int64) (*OrderDetail, error) {
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{
		Order:   order,
		State:   orderflow.State(*order),
		Actions: s.policy.ActionsFor(user, *order),
	}, nil
}

// Convert 报价单转销售单
func (s *OrderService) Convert(ctx context.Context, user entity.User, id int64, confirmed bool) (*entity.Order, error) {
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutateOrder(user, *order) {
		return nil, ErrForbidden
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	converted, err := orderflow.ConvertToSales(*order)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateOrderStatus(ctx, id, apiclient.OrderStatusRequest{
		OrderType:   &converted.OrderType,
		IsPaid:      &converted.IsPaid,
		IsCompleted: &converted.IsCompleted,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Order converted to sales",
		zap.Int64("order_id", id),
		zap.Int64("user_id", user.ID),
	)
	return updated, nil
}

// UpdateStatus 修改销售单的付款/完成标记
func (s *OrderService) UpdateStatus(ctx context.Context, user entity.User, id int64, upd orderflow.StatusUpdate) (*entity.Order, error) {
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutateOrder(user, *order) {
		return nil, ErrForbidden
	}
	if _, err := orderflow.ApplyStatus(*order, upd); err != nil {
		return nil, err
	}
	return s.api.UpdateOrderStatus(ctx, id, apiclient.OrderStatusRequest{
		IsPaid:      upd.IsPaid,
		IsCompleted: upd.IsCompleted,
		Remark:      upd.Remark,
	})
}

// Delete 删除订单，任何状态都可以删除
func (s *OrderService) Delete(ctx context.Context, user entity.User, id int64, confirmed bool) error {
	if !s.policy.Can(user.Role, policy.OrderDelete) {
		return ErrForbidden
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.api.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.Int64("order_id", id), zap.Int64("user_id", user.ID))
	return nil
}

// PDF 获取订单 PDF；配置了对象存储时顺带归档
func (s *OrderService) PDF(ctx context.Context, id int64) ([]byte, string, string, error) {
	data, contentType, err := s.api.OrderPDF(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	if contentType == "" {
		contentType = "application/pdf"
	}

	filename := fmt.Sprintf("order-%d.pdf", id)
	if order, err := s.api.GetOrder(ctx, id); err == nil && order.OrderNumber != "" {
		filename = order.OrderNumber + ".pdf"
	}

	if s.archive != nil {
		objectName := "orders/" + filename
		_, err := s.archive.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			s.logger.Warn("Failed to archive order pdf", zap.String("object", objectName), zap.Error(err))
		}
	}
	return data, filename, contentType, nil
}
