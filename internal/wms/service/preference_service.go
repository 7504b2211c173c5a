package service

import (
	"context"
	"errors"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/repository"
)

// PreferenceService 界面偏好
type PreferenceService struct {
	repo *repository.PreferenceRepository
}

func NewPreferenceService(repo *repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// PreferenceInput 偏好修改，nil 表示不变
type PreferenceInput struct {
	InventoryView *string `json:"inventory_view"`
	PageSize      *int    `json:"page_size"`
	Theme         *string `json:"theme"`
}

// Get 未保存过偏好时返回默认值
func (s *PreferenceService) Get(ctx context.Context, userID int64) (*entity.UserPreference, error) {
	if s.repo == nil {
		pref := entity.DefaultPreference(userID)
		return &pref, nil
	}
	pref, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		def := entity.DefaultPreference(userID)
		return &def, nil
	}
	return pref, err
}

func (s *PreferenceService) Update(ctx context.Context, userID int64, in PreferenceInput) (*entity.UserPreference, error) {
	if s.repo == nil {
		return nil, errors.New("preference storage is not configured")
	}
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.InventoryView != nil {
		if *in.InventoryView != entity.InventoryViewList && *in.InventoryView != entity.InventoryViewCard {
			return nil, apiclient.Validation("inventory_view must be list or card")
		}
		pref.InventoryView = *in.InventoryView
	}
	if in.PageSize != nil {
		if *in.PageSize < 1 || *in.PageSize > 100 {
			return nil, apiclient.Validation("page_size must be between 1 and 100")
		}
		pref.PageSize = *in.PageSize
	}
	if in.Theme != nil {
		if *in.Theme != "light" && *in.Theme != "dark" {
			return nil, apiclient.Validation("theme must be light or dark")
		}
		pref.Theme = *in.Theme
	}
	pref.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// Reset 恢复默认偏好
func (s *PreferenceService) Reset(ctx context.Context, userID int64) (*entity.UserPreference, error) {
	if s.repo != nil {
		if err := s.repo.Delete(ctx, userID); err != nil {
			return nil, err
		}
	}
	def := entity.DefaultPreference(userID)
	return &def, nil
}
