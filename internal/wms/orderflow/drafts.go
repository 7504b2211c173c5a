package orderflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/shared/kvstore"
)

// ErrNoDraft 当前会话没有进行中的订单表单
var ErrNoDraft = errors.New("no order draft")

// DraftStore 按会话保存订单表单，每个会话同一时间只有一张
type DraftStore struct {
	store kvstore.Store
	ttl   time.Duration
}

func NewDraftStore(store kvstore.Store, ttl time.Duration) *DraftStore {
	return &DraftStore{store: store, ttl: ttl}
}

func draftKey(sessionID string) string {
	return "wms:draft:" + sessionID
}

func (s *DraftStore) Load(ctx context.Context, sessionID string) (*Form, error) {
	blob, err := s.store.Get(ctx, draftKey(sessionID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var form Form
	if err := json.Unmarshal(blob, &form); err != nil {
		// 损坏的草稿直接丢弃
		_ = s.store.Del(ctx, draftKey(sessionID))
		return nil, ErrNoDraft
	}
	return &form, nil
}

func (s *DraftStore) Save(ctx context.Context, sessionID string, form *Form) error {
	blob, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.store.Set(ctx, draftKey(sessionID), blob, s.ttl)
}

func (s *DraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.store.Del(ctx, draftKey(sessionID))
}
